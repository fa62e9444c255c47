package objects

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmercad0/slack-objects/pkg/identity"
	"github.com/mmercad0/slack-objects/pkg/webapi"
)

func TestFilesInfoMergesPages(t *testing.T) {
	transport := &fakeWebTransport{bodies: map[string][]map[string]any{
		"files.info": {
			jsonBody(t, `{"ok": true, "file": {
				"id": "F123", "name": "report.txt", "mimetype": "text/plain", "size": 42
			}, "response_metadata": {"next_cursor": "comments2"}}`),
			jsonBody(t, `{"ok": true, "file": {
				"id": "F123", "title": "Quarterly report"
			}, "response_metadata": {"next_cursor": ""}}`),
		},
	}}
	client := newTestClient(t, transport)

	file, err := client.Files().Info(context.Background(), "F123")
	require.NoError(t, err)

	assert.Equal(t, "F123", file.ID)
	assert.Equal(t, "report.txt", file.Name, "first page fields survive the merge")
	assert.Equal(t, "Quarterly report", file.Title, "later page fields extend the object")
	assert.True(t, file.IsText())

	require.Len(t, transport.calls, 2)
	assert.Equal(t, "comments2", transport.calls[1].args["cursor"])
}

func TestFilesList(t *testing.T) {
	transport := &fakeWebTransport{bodies: map[string][]map[string]any{
		"files.list": {jsonBody(t, `{"ok": true, "files": [
			{"id": "F1", "name": "a.txt"}, {"id": "F2", "name": "b.png", "mimetype": "image/png"}
		]}`)},
	}}
	client := newTestClient(t, transport)

	files, err := client.Files().List(context.Background(), "C42", 50)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "b.png", files[1].Name)
	assert.False(t, files[1].IsText())

	require.Len(t, transport.calls, 1)
	assert.Equal(t, "C42", transport.calls[0].args["channel"])
	assert.Equal(t, 50, transport.calls[0].args["count"])
}

func TestFilesDelete(t *testing.T) {
	transport := &fakeWebTransport{bodies: map[string][]map[string]any{
		"files.delete": {jsonBody(t, `{"ok": true}`)},
	}}
	client := newTestClient(t, transport)

	err := client.Files().Delete(context.Background(), "F123")
	require.NoError(t, err)

	require.Len(t, transport.calls, 1)
	assert.Equal(t, "F123", transport.calls[0].args["file"])

	err = client.Files().Delete(context.Background(), "../F123")
	assert.True(t, errors.Is(err, identity.ErrInvalidIdentifier))
	assert.Len(t, transport.calls, 1)
}

func TestFilesUploadUsesFormEncoding(t *testing.T) {
	transport := &fakeWebTransport{bodies: map[string][]map[string]any{
		"files.upload": {jsonBody(t, `{"ok": true, "file": {"id": "F999", "name": "notes.txt"}}`)},
	}}
	client := newTestClient(t, transport)

	file, err := client.Files().Upload(context.Background(), UploadRequest{
		Content:  "hello",
		Filename: "notes.txt",
		Title:    "Notes",
		Channel:  "C42",
	})
	require.NoError(t, err)
	assert.Equal(t, "F999", file.ID)

	require.Len(t, transport.calls, 1)
	call := transport.calls[0]
	assert.Equal(t, "files.upload", call.method)
	assert.Equal(t, webapi.StyleForm, call.style, "files.upload does not accept JSON bodies")
	assert.Equal(t, "hello", call.args["content"])
	assert.Equal(t, "C42", call.args["channels"])
}

func TestFilesUploadRequiresContent(t *testing.T) {
	transport := &fakeWebTransport{bodies: map[string][]map[string]any{}}
	client := newTestClient(t, transport)

	_, err := client.Files().Upload(context.Background(), UploadRequest{Filename: "x.txt"})
	require.Error(t, err)
	assert.Empty(t, transport.calls)
}

func TestFilesSourceMessage(t *testing.T) {
	transport := &fakeWebTransport{bodies: map[string][]map[string]any{
		"conversations.history": {jsonBody(t, `{"ok": true, "messages": [
			{"user": "U1", "text": "no files here", "ts": "3"},
			{"user": "U2", "text": "other upload", "ts": "2", "files": [{"id": "F777"}]},
			{"user": "U1", "text": "here it is", "ts": "1", "files": [{"id": "F123"}]}
		], "response_metadata": {"next_cursor": ""}}`)},
	}}
	client := newTestClient(t, transport)

	msg, err := client.Files().SourceMessage(context.Background(), "C42", "F123", "U1", 0)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "here it is", msg.Text)

	msg, err = client.Files().SourceMessage(context.Background(), "C42", "F000", "", 0)
	require.NoError(t, err)
	assert.Nil(t, msg, "absent file resolves to no source message")
}
