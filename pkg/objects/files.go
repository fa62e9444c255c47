package objects

import (
	"context"
	"fmt"

	"github.com/mmercad0/slack-objects/pkg/identity"
	"github.com/mmercad0/slack-objects/pkg/pagination"
	"github.com/mmercad0/slack-objects/pkg/webapi"
)

// File is the decoded shape of a Web API file object.
type File struct {
	ID         string `mapstructure:"id"`
	Name       string `mapstructure:"name"`
	Title      string `mapstructure:"title"`
	Mimetype   string `mapstructure:"mimetype"`
	PrettyType string `mapstructure:"pretty_type"`
	User       string `mapstructure:"user"`
	URLPrivate string `mapstructure:"url_private"`
	Size       int    `mapstructure:"size"`
}

// IsText reports whether the file's content is a text type.
func (f *File) IsText() bool {
	return len(f.Mimetype) >= 5 && f.Mimetype[:5] == "text/"
}

// Files bundles file-related operations.
type Files struct {
	c *Client
}

// Info fetches one file via files.info. Later pages extend the file object
// (comments and shares arrive there), so pages are merged before decoding.
func (f *Files) Info(ctx context.Context, fileID string) (*File, error) {
	if _, err := identity.ValidateID(fileID, "file_id"); err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, cursor string) ([]map[string]any, string, error) {
		args := map[string]any{"file": fileID}
		if cursor != "" {
			args["cursor"] = cursor
		}

		body, err := f.c.api.Call(ctx, "files.info", args)
		if err != nil {
			return nil, "", err
		}

		fileObj, _ := body["file"].(map[string]any)
		return []map[string]any{fileObj}, nextCursor(body), nil
	}

	pages, err := pagination.Collect(ctx, fetch, pagination.Options{})
	if err != nil {
		return nil, err
	}

	merged := map[string]any{}
	for _, page := range pages {
		for key, value := range page {
			merged[key] = value
		}
	}

	var file File
	if err := decode(merged, &file); err != nil {
		return nil, fmt.Errorf("decode files.info response: %w", err)
	}
	return &file, nil
}

// List returns one page of files via files.list, optionally scoped to a
// channel. count <= 0 uses the API default page size.
func (f *Files) List(ctx context.Context, channelID string, count int) ([]File, error) {
	args := map[string]any{}
	if channelID != "" {
		if _, err := identity.ValidateID(channelID, "channel_id"); err != nil {
			return nil, err
		}
		args["channel"] = channelID
	}
	if count > 0 {
		args["count"] = count
	}

	body, err := f.c.api.Call(ctx, "files.list", args)
	if err != nil {
		return nil, err
	}

	var files []File
	if err := decode(body["files"], &files); err != nil {
		return nil, fmt.Errorf("decode files.list response: %w", err)
	}
	return files, nil
}

// Delete removes a file via files.delete.
func (f *Files) Delete(ctx context.Context, fileID string) error {
	if _, err := identity.ValidateID(fileID, "file_id"); err != nil {
		return err
	}

	_, err := f.c.api.Call(ctx, "files.delete", map[string]any{"file": fileID})
	return err
}

// UploadRequest describes a files.upload call. Content is required;
// Filename defaults to upload.txt.
type UploadRequest struct {
	Content  string
	Filename string
	Title    string
	Channel  string
	ThreadTS string
}

// Upload sends text content via files.upload. The endpoint does not accept
// JSON bodies, so the call is form-encoded on every attempt.
func (f *Files) Upload(ctx context.Context, req UploadRequest) (*File, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("upload content is required")
	}
	if req.Filename == "" {
		req.Filename = "upload.txt"
	}

	args := map[string]any{
		"content":  req.Content,
		"filename": req.Filename,
		"title":    req.Title,
	}
	if req.Channel != "" {
		if _, err := identity.ValidateID(req.Channel, "channel_id"); err != nil {
			return nil, err
		}
		args["channels"] = req.Channel
	}
	if req.ThreadTS != "" {
		args["thread_ts"] = req.ThreadTS
	}

	body, err := f.c.api.Call(ctx, "files.upload", args, webapi.WithStyle(webapi.StyleForm))
	if err != nil {
		return nil, err
	}

	var file File
	if err := decode(body["file"], &file); err != nil {
		return nil, fmt.Errorf("decode files.upload response: %w", err)
	}
	return &file, nil
}

// SourceMessage scans the most recent channel messages for the one that
// shared fileID, optionally filtered to a poster. Returns nil when no recent
// message carries the file. limit <= 0 scans the 5 most recent messages.
func (f *Files) SourceMessage(ctx context.Context, channelID, fileID, userID string, limit int) (*Message, error) {
	if _, err := identity.ValidateID(fileID, "file_id"); err != nil {
		return nil, err
	}
	if userID != "" {
		if _, err := identity.ValidateID(userID, "user_id"); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = 5
	}

	messages, err := f.c.Messages().History(ctx, channelID, limit)
	if err != nil {
		return nil, err
	}

	for i := range messages {
		msg := &messages[i]
		if len(msg.Files) == 0 {
			continue
		}
		if userID != "" && msg.User != userID {
			continue
		}
		for _, shared := range msg.Files {
			if shared.ID == fileID {
				return msg, nil
			}
		}
	}
	return nil, nil
}
