package task

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	blob "go-parley/internal/infrastructure/blob/port"
	"go-parley/internal/infrastructure/queue/port"
)

// TypeReleaseBlob is the queue task type for deleting an orphaned attachment
// after its message or conversation is gone.
const TypeReleaseBlob = "chat:release_blob"

// ReleaseBlobPayload carries the stored blob URL to remove.
type ReleaseBlobPayload struct {
	FileURL string `json:"file_url"`
}

// NewReleaseBlobTask builds an enqueueable task for the given blob URL.
func NewReleaseBlobTask(fileURL string) (port.Task, error) {
	if fileURL == "" {
		return port.Task{}, errors.New("task: file url is required")
	}
	payload, err := json.Marshal(ReleaseBlobPayload{FileURL: fileURL})
	if err != nil {
		return port.Task{}, err
	}
	return port.Task{Type: TypeReleaseBlob, Payload: payload}, nil
}

// ReleaseBlobHandler deletes blobs referenced by release tasks. Deletion of a
// missing blob is a success so retries stay idempotent.
type ReleaseBlobHandler struct {
	Store  blob.Store
	Logger *zap.SugaredLogger
}

func NewReleaseBlobHandler(store blob.Store, logger *zap.SugaredLogger) *ReleaseBlobHandler {
	return &ReleaseBlobHandler{Store: store, Logger: logger}
}

// Register wires the handler into a queue server.
func (h *ReleaseBlobHandler) Register(srv port.Server) {
	srv.Register(TypeReleaseBlob, h.Handle)
}

func (h *ReleaseBlobHandler) Handle(ctx context.Context, t port.Task) error {
	var p ReleaseBlobPayload
	if err := json.Unmarshal(t.Payload, &p); err != nil {
		// malformed payloads never become valid, do not retry
		h.Logger.Errorw("release blob: bad payload", "err", err)
		return nil
	}
	if err := h.Store.Delete(ctx, p.FileURL); err != nil {
		h.Logger.Warnw("release blob: delete failed", "url", p.FileURL, "err", err)
		return err
	}
	h.Logger.Debugw("release blob: deleted", "url", p.FileURL)
	return nil
}
