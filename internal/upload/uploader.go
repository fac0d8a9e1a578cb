// Package upload persists user-selected files into the object storage
// collaborator and records each successful upload as a conversation turn.
package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"reviewflow/internal/conversation"
	"reviewflow/internal/notify"
	"reviewflow/internal/objectstore"
)

// UploadRecord describes a completed upload.
type UploadRecord struct {
	FileName   string `json:"fileName"`
	StorageKey string `json:"storageKey"`
}

// Uploader stores artifacts and appends the matching user turn. Uploads
// are independent of any in-flight submission; they share only the
// history append target with the orchestrator.
type Uploader struct {
	store    objectstore.Store
	keys     KeyGenerator
	history  *conversation.History
	notifier notify.Notifier
	log      zerolog.Logger
}

func New(store objectstore.Store, keys KeyGenerator, history *conversation.History, notifier notify.Notifier, log zerolog.Logger) (*Uploader, error) {
	if store == nil {
		return nil, fmt.Errorf("upload: object store must not be nil")
	}
	if keys == nil {
		keys = UUIDKeyGenerator{}
	}
	if history == nil {
		return nil, fmt.Errorf("upload: history must not be nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("upload: notifier must not be nil")
	}
	return &Uploader{
		store:    store,
		keys:     keys,
		history:  history,
		notifier: notifier,
		log:      log,
	}, nil
}

// Upload stores the file under a freshly generated key. On success it
// appends a user turn naming the original file; on failure it appends
// nothing, raises a notification, and leaves retrying to the user.
func (u *Uploader) Upload(ctx context.Context, fileName string, r io.Reader) (UploadRecord, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return UploadRecord{}, fmt.Errorf("upload: file name is required")
	}
	if r == nil {
		return UploadRecord{}, fmt.Errorf("upload: file content is required")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		u.fail(fileName, err)
		return UploadRecord{}, fmt.Errorf("upload %s: %w", fileName, err)
	}
	if len(data) == 0 {
		return UploadRecord{}, fmt.Errorf("upload %s: file is empty", fileName)
	}

	key := u.keys.NewKey(extensionOf(fileName))
	if err := u.store.Store(ctx, key, data); err != nil {
		u.fail(fileName, err)
		return UploadRecord{}, fmt.Errorf("upload %s: %w", fileName, err)
	}

	u.history.Append(conversation.RoleUser, "📎 Uploaded file: "+fileName)
	u.notifier.Notify(notify.Notification{
		Title:       "Success",
		Description: "File uploaded successfully",
		Severity:    notify.SeverityInfo,
	})
	return UploadRecord{FileName: fileName, StorageKey: key}, nil
}

func (u *Uploader) fail(fileName string, err error) {
	u.log.Error().Err(err).Str("file", fileName).Msg("file upload failed")
	u.notifier.Notify(notify.Notification{
		Title:       "Error",
		Description: "Failed to upload file",
		Severity:    notify.SeverityError,
	})
}
