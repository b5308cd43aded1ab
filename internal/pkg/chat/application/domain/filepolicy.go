package chat

import "strings"

// Per-type upload ceilings, in bytes.
const (
	maxImageSize = 5 * 1024 * 1024
	maxAudioSize = 10 * 1024 * 1024
	maxVideoSize = 50 * 1024 * 1024
	maxFileSize  = 20 * 1024 * 1024
)

var allowedContentTypes = map[MessageType][]string{
	MessageTypeImage: {"image/jpeg", "image/png", "image/gif", "image/webp"},
	MessageTypeAudio: {"audio/mpeg", "audio/mp3", "audio/wav", "audio/ogg", "audio/webm", "audio/mp4", "audio/x-m4a", "audio/aac", "audio/m4a"},
	MessageTypeVideo: {"video/mp4", "video/webm", "video/ogg"},
	MessageTypeFile: {
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"text/plain",
		"application/zip",
	},
}

// ValidFileType reports whether contentType is on the allow-list for msgType.
// Text messages never carry files.
func ValidFileType(contentType string, msgType MessageType) bool {
	ct := strings.ToLower(contentType)
	for _, allowed := range allowedContentTypes[msgType] {
		if ct == allowed {
			return true
		}
	}
	return false
}

// MaxFileSize returns the upload ceiling for msgType, zero for text.
func MaxFileSize(msgType MessageType) int64 {
	switch msgType {
	case MessageTypeImage:
		return maxImageSize
	case MessageTypeAudio:
		return maxAudioSize
	case MessageTypeVideo:
		return maxVideoSize
	case MessageTypeFile:
		return maxFileSize
	default:
		return 0
	}
}

// CheckUpload validates an incoming file against the type allow-list and the
// per-type size ceiling before any bytes are stored.
func CheckUpload(contentType string, size int64, msgType MessageType) error {
	if !ValidFileType(contentType, msgType) {
		return ErrInvalidFileType
	}
	if size > MaxFileSize(msgType) {
		return ErrFileTooLarge
	}
	return nil
}
