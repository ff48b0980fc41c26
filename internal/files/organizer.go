package files

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/pkg/errors"
)

// maxSuffix caps the name_N probing for one destination.
const maxSuffix = 10000

type ContactFinder interface {
	FindByPhone(ctx context.Context, phone string) (*model.Contact, error)
}

// StoredFile describes a file committed under a contact folder.
type StoredFile struct {
	Path   string
	Name   string
	Bucket Bucket
	Mime   string
	Size   int64
	Hash   string
}

// Organizer owns the storage root: one folder per contact, each holding the
// fixed media bucket subfolders.
type Organizer struct {
	root     string
	contacts ContactFinder
}

func NewOrganizer(root string, contacts ContactFinder) *Organizer {
	return &Organizer{
		root:     root,
		contacts: contacts,
	}
}

func (o *Organizer) Root() string {
	return o.root
}

// Init creates the storage root if it does not exist.
func (o *Organizer) Init() error {
	if err := os.MkdirAll(o.root, 0o755); err != nil {
		return errors.Wrap(model.ErrStorageUnavailable, err.Error())
	}
	return nil
}

// FolderName derives the contact folder name: the phone, followed by the
// sanitized display name when one survives sanitization.
func FolderName(phone, name string) string {
	clean := sanitizeName(name)
	if clean == "" {
		return phone
	}
	return phone + "_" + clean
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// EnsureContactFolder creates the contact folder and all bucket subfolders,
// returning the folder path. Existing folders are left untouched.
func (o *Organizer) EnsureContactFolder(phone, name string) (string, error) {
	dir := filepath.Join(o.root, FolderName(phone, name))
	for _, b := range Buckets {
		if err := os.MkdirAll(filepath.Join(dir, b.Folder()), 0o755); err != nil {
			return "", errors.Wrap(model.ErrStorageUnavailable, err.Error())
		}
	}
	return dir, nil
}

// Commit copies sourcePath into the bucket subfolder of the contact
// registered under phone. The stored name is fileName when given, otherwise
// the source base name; an existing file is never overwritten, the name gets
// a _N suffix instead. The source file is left in place.
func (o *Organizer) Commit(ctx context.Context, phone, sourcePath, fileName string) (*StoredFile, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(model.ErrSourceNotFound, sourcePath)
		}
		return nil, errors.Wrap(model.ErrStorageUnavailable, err.Error())
	}
	if info.IsDir() {
		return nil, errors.Wrapf(model.ErrInvalidInput, "%s is a directory", sourcePath)
	}

	contact, err := o.contacts.FindByPhone(ctx, model.NormalizePhone(phone))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errors.Wrap(model.ErrContactUnresolved, phone)
		}
		return nil, err
	}

	name := filepath.Base(fileName)
	if fileName == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		name = filepath.Base(sourcePath)
	}
	mimeType := MimeFromName(name)
	if mimeType == "" {
		mimeType = MimeFromName(sourcePath)
	}
	bucket := BucketForMime(mimeType)

	dir := filepath.Join(contact.FolderPath, bucket.Folder())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(model.ErrStorageUnavailable, err.Error())
	}

	src, err := os.Open(sourcePath)
	if err != nil {
		return nil, errors.Wrap(model.ErrStorageUnavailable, err.Error())
	}
	defer src.Close()

	dst, destPath, err := createUnique(dir, name)
	if err != nil {
		return nil, err
	}

	h := sha256.New()
	size, err := io.CopyBuffer(io.MultiWriter(dst, h), src, make([]byte, hashChunkSize))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		o.Remove(destPath)
		return nil, errors.Wrapf(model.ErrStorageUnavailable, "copy %s: %v", sourcePath, err)
	}

	if err := os.Chtimes(destPath, info.ModTime(), info.ModTime()); err != nil {
		logger.Warn("preserve mtime failed", "path", destPath, "error", err)
	}

	return &StoredFile{
		Path:   destPath,
		Name:   filepath.Base(destPath),
		Bucket: bucket,
		Mime:   mimeType,
		Size:   size,
		Hash:   hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// createUnique exclusively creates name in dir, probing name_1.ext,
// name_2.ext, ... while the candidate exists.
func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; i <= maxSuffix; i++ {
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", errors.Wrap(model.ErrStorageUnavailable, err.Error())
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	return nil, "", errors.Wrapf(model.ErrStorageUnavailable, "no free name for %s in %s", name, dir)
}

// Remove deletes a committed file. Used to undo a commit whose ledger row
// could not be written.
func (o *Organizer) Remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("remove stored file failed", "path", path, "error", err)
	}
}
