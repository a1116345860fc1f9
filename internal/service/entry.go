package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"emailpost/internal/model"
	"emailpost/internal/repository"
	"emailpost/internal/slug"
	"emailpost/internal/storage"
)

const (
	// NoBodyContent replaces the body of emails that carried none.
	NoBodyContent = "*Email contained no body*"

	// IndexCacheNamespace is cleared after every saved entry.
	IndexCacheNamespace = "index"

	folderStampLayout = "20060102150405"
	headerDateLayout  = "2006-01-02 15:04"
	logPrefix         = "[Emailpost] "
)

var (
	subjectFields = []string{"subject", "Subject"}
	bodyFields    = []string{"stripped-html", "body-html", "stripped-text", "body-plain"}

	tracer = otel.Tracer("emailpost/service")
)

// ParentFinder resolves a route to an existing content node.
type ParentFinder interface {
	Find(ctx context.Context, route string) (*model.Node, error)
}

// ContentStore persists a fully built entry.
type ContentStore interface {
	Save(ctx context.Context, e *model.Entry) error
}

// Folders creates entry directories.
type Folders interface {
	Exists(path string) bool
	Create(path string) error
}

// CacheInvalidator drops a cache namespace.
type CacheInvalidator interface {
	ClearCache(namespace string)
}

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
}

// Options holds the per-site settings of the pipeline.
type Options struct {
	ParentRoute string
	Template    string
	Verbose     bool
	Location    *time.Location
}

// EntryService turns inbound email submissions into content entries.
type EntryService interface {
	// Create validates the submission, creates the entry folder below the
	// configured parent, stores attachments and saves the markdown file.
	// Failures the caller can fix are returned as *ExpectedError.
	Create(ctx context.Context, sub *model.Submission) (*model.Entry, error)
}

// Deps are the collaborators of the entry pipeline.
type Deps struct {
	Parents     ParentFinder
	Store       ContentStore
	Folders     Folders
	Attachments storage.Storage
	Cache       CacheInvalidator
	Ledger      repository.EntryRepository
	Logger      Logger
}

// entryService is a concrete implementation of EntryService.
type entryService struct {
	deps Deps
	opts Options
	now  func() time.Time
}

// NewEntryService constructs a new EntryService.
func NewEntryService(deps Deps, opts Options) EntryService {
	return newEntryService(deps, opts, time.Now)
}

func newEntryService(deps Deps, opts Options, now func() time.Time) *entryService {
	if opts.Template == "" {
		opts.Template = "item"
	}
	if opts.ParentRoute == "" {
		opts.ParentRoute = "/blog"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &entryService{deps: deps, opts: opts, now: now}
}

func (s *entryService) Create(ctx context.Context, sub *model.Submission) (*model.Entry, error) {
	ctx, span := tracer.Start(ctx, "EntryService.Create")
	defer span.End()

	e, err := s.create(ctx, sub)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("emailpost.slug", e.Slug),
		attribute.String("emailpost.folder", e.Folder),
		attribute.Int("emailpost.attachments", len(e.Attachments)),
	)
	return e, nil
}

func (s *entryService) create(ctx context.Context, sub *model.Submission) (*model.Entry, error) {
	subject, ok := sub.Value(subjectFields...)
	if !ok {
		return nil, expected(MsgMissingSubject, nil)
	}
	content, ok := sub.Value(bodyFields...)
	if !ok {
		content = NoBodyContent
	}

	parent, err := s.deps.Parents.Find(ctx, s.opts.ParentRoute)
	if err != nil {
		if errors.Is(err, model.ErrNodeNotFound) {
			return nil, expected(MsgParentNotFound, err)
		}
		return nil, fmt.Errorf("find parent %s: %w", s.opts.ParentRoute, err)
	}
	if parent == nil {
		return nil, expected(MsgParentNotFound, model.ErrNodeNotFound)
	}

	entrySlug := slug.Make(subject)
	if entrySlug == "" {
		entrySlug = s.stamp()
	}
	// The folder stamp is taken separately from the fallback slug; both
	// normally agree to the second.
	createdAt := s.now().In(s.opts.Location)
	folder := createdAt.Format(folderStampLayout) + "-" + entrySlug

	e := &model.Entry{
		ID:        uuid.NewString(),
		Title:     subject,
		Slug:      entrySlug,
		Template:  s.opts.Template,
		Name:      s.opts.Template + ".md",
		Extension: ".md",
		Folder:    folder,
		Route:     strings.TrimSuffix(parent.Route, "/") + "/" + folder,
		Path:      filepath.Join(parent.Path, folder),
		Key:       path.Join(parent.RelPath, folder),
		Parent:    parent,
		Content:   content,
		Header: model.Header{
			Title:     subject,
			Date:      createdAt.Format(headerDateLayout),
			Published: true,
		},
		Attachments: []string{},
		CreatedAt:   createdAt,
	}

	s.verbose(ctx, "Resolved entry location",
		"parent_route", s.opts.ParentRoute,
		"parent_path", parent.Path,
		"subject", subject,
		"slug", entrySlug,
		"folder", folder,
		"template", s.opts.Template,
	)

	if parent.Path == "" {
		return nil, expected(MsgNoPagePath, nil)
	}
	if !s.deps.Folders.Exists(e.Path) {
		if err := s.deps.Folders.Create(e.Path); err != nil {
			s.verbose(ctx, "Directory creation failed", "path", e.Path, "error", err.Error())
		}
	}
	if !s.deps.Folders.Exists(e.Path) {
		return nil, expected(MsgCreateDirFailed, nil)
	}

	if err := s.storeAttachments(ctx, sub, e); err != nil {
		return nil, err
	}

	if err := s.deps.Store.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	s.deps.Cache.ClearCache(IndexCacheNamespace)

	if s.deps.Ledger != nil {
		if _, err := s.deps.Ledger.Create(ctx, e); err != nil {
			s.log(ctx, slog.LevelError, "Entry ledger write failed", "folder", folder, "error", err.Error())
		}
	}
	return e, nil
}

// storeAttachments copies every genuine upload into the entry folder. Parts
// without a name or without a source are skipped, as are parts the transport
// did not itself receive. Files stored before a failure stay in place.
func (s *entryService) storeAttachments(ctx context.Context, sub *model.Submission, e *model.Entry) error {
	if !sub.HasFiles() {
		return nil
	}
	for _, u := range sub.Uploads {
		if u.Filename == "" || u.File == nil {
			s.verbose(ctx, "Skipped empty upload", "field", u.Field)
			continue
		}
		if !sub.IsUpload(u) {
			s.verbose(ctx, "Skipped upload of unknown origin", "field", u.Field, "filename", u.Filename)
			continue
		}

		name := slug.Filename(u.Filename)
		if err := s.copyUpload(ctx, u, path.Join(e.Key, name)); err != nil {
			return expected(fmt.Sprintf(MsgAttachmentFmt, u.Filename), err)
		}
		e.Attachments = append(e.Attachments, name)
		s.verbose(ctx, "Stored attachment", "filename", u.Filename, "stored_as", name, "size", u.Size)
	}
	return nil
}

func (s *entryService) copyUpload(ctx context.Context, u model.Upload, key string) error {
	src, err := u.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	ct := ""
	if u.File.Header != nil {
		ct = u.File.Header.Get("Content-Type")
	}
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(key))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}

	_, err = s.deps.Attachments.Put(ctx, key, src, storage.PutObjectOptions{
		Size:        u.Size,
		ContentType: ct,
		Metadata: map[string]string{
			"original-filename": u.Filename,
		},
	})
	return err
}

func (s *entryService) stamp() string {
	return s.now().In(s.opts.Location).Format(folderStampLayout)
}

func (s *entryService) verbose(ctx context.Context, msg string, args ...any) {
	if s.opts.Verbose {
		s.log(ctx, slog.LevelDebug, msg, args...)
	}
}

func (s *entryService) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if s.deps.Logger != nil {
		s.deps.Logger.Log(ctx, level, logPrefix+msg, args...)
	}
}
