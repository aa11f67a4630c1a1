package styles

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/templatestyles/pkg/logger"
	"github.com/dmitrymomot/templatestyles/pkg/store"
	"github.com/dmitrymomot/templatestyles/pkg/stylesheet"
)

const (
	DefaultScopeSelector = "#mw-content-text "
	DefaultNamespace     = 10
	DefaultMaxBodyBytes  = 1 << 20
)

// Service attaches sanitized style sheets to pages and composes the style
// sheet of a page from the pages it transcludes.
type Service struct {
	store      store.Store
	policy     *stylesheet.Policy
	scope      string
	namespaces []int
	maxBody    int64
	log        *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithScopeSelector sets the selector every rule is prefixed with. An empty
// selector leaves rules unscoped.
func WithScopeSelector(selector string) Option {
	return func(s *Service) { s.scope = selector }
}

// WithNamespaces sets the namespaces whose transcluded pages contribute
// styles.
func WithNamespaces(ns ...int) Option {
	return func(s *Service) { s.namespaces = slices.Clone(ns) }
}

// WithMaxBodyBytes limits request bodies accepted by the HTTP handler.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New returns a Service. A nil policy allows every property and no function.
func New(st store.Store, policy *stylesheet.Policy, opts ...Option) *Service {
	s := &Service{
		store:      st,
		policy:     policy,
		scope:      DefaultScopeSelector,
		namespaces: []int{DefaultNamespace},
		maxBody:    DefaultMaxBodyBytes,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("styles"))
	return s
}

// Result describes a stored style sheet.
type Result struct {
	PageID   int64                `json:"page_id"`
	Tree     stylesheet.Tree      `json:"tree"`
	Warnings []stylesheet.Warning `json:"warnings"`
}

// Context is a page being rendered and the pages it transcludes, grouped by
// namespace.
type Context struct {
	PageID    int64
	Templates map[int][]int64
}

// Attach parses source, scoped to the configured selector, and stores the
// tree for the page. Warnings report what rendering will drop; they never
// prevent the page from being stored.
func (s *Service) Attach(ctx context.Context, pageID int64, source string) (Result, error) {
	if pageID <= 0 {
		return Result{}, ErrInvalidPageID
	}

	tree, warnings := stylesheet.Analyze(source, s.scope, s.policy)
	if warnings == nil {
		warnings = []stylesheet.Warning{}
	}

	blob, err := stylesheet.Encode(tree)
	if err != nil {
		return Result{}, errors.Join(ErrAttach, err)
	}
	if err := s.store.Put(ctx, pageID, blob); err != nil {
		return Result{}, errors.Join(ErrAttach, err)
	}

	s.log.DebugContext(ctx, "page styles attached",
		logger.PageID(pageID),
		logger.Bytes(len(blob)),
		logger.Count(len(warnings)),
	)
	return Result{PageID: pageID, Tree: tree, Warnings: warnings}, nil
}

// Detach removes the styles of a page. Detaching a page without styles is
// not an error.
func (s *Service) Detach(ctx context.Context, pageID int64) error {
	if pageID <= 0 {
		return ErrInvalidPageID
	}
	if err := s.store.Delete(ctx, pageID); err != nil {
		return errors.Join(ErrDetach, err)
	}
	s.log.DebugContext(ctx, "page styles detached", logger.PageID(pageID))
	return nil
}

// Tree returns the stored tree of a page.
func (s *Service) Tree(ctx context.Context, pageID int64) (stylesheet.Tree, error) {
	if pageID <= 0 {
		return nil, ErrInvalidPageID
	}
	blob, err := s.store.Get(ctx, pageID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return stylesheet.Decode(blob)
}

// Compose renders the style sheet of a page: the trees of its transcluded
// pages in configured namespaces, ordered by page id, followed by the page's
// own tree. Pages without styles are skipped, as are undecodable blobs,
// which are logged.
func (s *Service) Compose(ctx context.Context, c Context) (string, error) {
	ids := s.templateIDs(c)
	if c.PageID > 0 {
		ids = append(ids, c.PageID)
	}
	if len(ids) == 0 {
		return "", nil
	}

	blobs, err := s.store.GetMany(ctx, ids)
	if err != nil {
		return "", errors.Join(ErrCompose, err)
	}

	trees := make([]stylesheet.Tree, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		blob, ok := blobs[id]
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tree, err := stylesheet.Decode(blob)
			if err != nil {
				s.log.WarnContext(ctx, "skipping undecodable page styles", logger.PageID(id), logger.Error(err))
				return nil
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", errors.Join(ErrCompose, err)
	}

	r := stylesheet.NewRenderer()
	for _, tree := range trees {
		if tree != nil {
			r.Add(tree)
		}
	}
	return r.Render(s.policy), nil
}

// templateIDs returns the sorted, distinct ids of transcluded pages in
// configured namespaces, excluding the page itself.
func (s *Service) templateIDs(c Context) []int64 {
	var ids []int64
	for ns, pages := range c.Templates {
		if !slices.Contains(s.namespaces, ns) {
			continue
		}
		for _, id := range pages {
			if id > 0 && id != c.PageID {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Preview sanitizes source without storing it.
func (s *Service) Preview(source, prefix string) string {
	r := stylesheet.NewRenderer()
	r.Add(stylesheet.Parse(source, prefix))
	return r.Render(s.policy)
}

// Lint reports what sanitizing source would drop.
func (s *Service) Lint(source string) []stylesheet.Warning {
	warnings := stylesheet.Lint(source, s.policy)
	if warnings == nil {
		return []stylesheet.Warning{}
	}
	return warnings
}
