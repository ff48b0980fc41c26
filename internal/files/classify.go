package files

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/nimasrn/inbox-ledger/internal/model"
)

// Bucket is one of the fixed media subfolders of a contact folder.
type Bucket string

const (
	BucketImage    Bucket = "image"
	BucketAudio    Bucket = "audio"
	BucketVideo    Bucket = "video"
	BucketDocument Bucket = "document"
	BucketOther    Bucket = "other"
)

// Buckets lists every bucket in folder creation order.
var Buckets = []Bucket{BucketImage, BucketDocument, BucketAudio, BucketVideo, BucketOther}

// Folder is the subfolder name for the bucket.
func (b Bucket) Folder() string {
	switch b {
	case BucketImage:
		return "images"
	case BucketAudio:
		return "audios"
	case BucketVideo:
		return "videos"
	case BucketDocument:
		return "documents"
	}
	return "other"
}

func (b Bucket) Kind() model.MessageKind {
	return model.MessageKind(b)
}

// extensions the ledger sees from WhatsApp that system mime tables often miss
var knownTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".oga":  "audio/ogg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".amr":  "audio/amr",
	".mp4":  "video/mp4",
	".3gp":  "video/3gpp",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".zip":  "application/zip",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".xml":  "text/xml",
}

// MimeFromName resolves the media type declared by the file extension.
func MimeFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t, ok := knownTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

// BucketForMime maps a media type onto a bucket.
func BucketForMime(mimeType string) Bucket {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	switch {
	case mimeType == "":
		return BucketOther
	case strings.HasPrefix(mimeType, "image/"):
		return BucketImage
	case strings.HasPrefix(mimeType, "audio/"):
		return BucketAudio
	case strings.HasPrefix(mimeType, "video/"):
		return BucketVideo
	case strings.HasPrefix(mimeType, "application/"), strings.HasPrefix(mimeType, "text/"):
		return BucketDocument
	}
	return BucketOther
}

// Classify buckets a file by the media type its name declares.
func Classify(name string) Bucket {
	return BucketForMime(MimeFromName(name))
}
