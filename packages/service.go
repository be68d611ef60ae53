package packages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourdesk/models"
	"tourdesk/mq"
	"tourdesk/sanitizer"
	"tourdesk/slug"
	"tourdesk/utils"
)

var (
	ErrInvalid      = errors.New("invalid package")
	ErrSlugConflict = errors.New("could not assign a unique slug")
)

// maxSlugRetries bounds how often a write rejected by the slug index is
// retried with a freshly computed slug.
const maxSlugRetries = 2

var objectIDShape = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Input is a create or update body. Nil fields are left untouched on update.
// The slug is derived, never accepted.
type Input struct {
	Title      *string   `json:"title"`
	Duration   *string   `json:"duration"`
	Price      *string   `json:"price"`
	Overview   *string   `json:"overview"`
	Itinerary  *[]string `json:"itinerary"`
	Inclusions *[]string `json:"inclusions"`
	Exclusions *[]string `json:"exclusions"`
	Visa       *string   `json:"visa"`
	BestTime   *string   `json:"bestTime"`
	Images     *[]string `json:"images"`
	IsActive   *bool     `json:"isActive"`
}

type Service struct {
	store Store
	pub   mq.Publisher
	log   *slog.Logger
	now   func() time.Time
}

func NewService(store Store, pub mq.Publisher, log *slog.Logger) *Service {
	return &Service{store: store, pub: pub, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) List(ctx context.Context, f Filter, opts utils.QueryOptions) ([]models.Package, error) {
	return s.store.List(ctx, f, opts)
}

// Resolve finds a package by route parameter. A parameter shaped like an
// ObjectID is tried as an id first; every miss falls back to slug equality.
func (s *Service) Resolve(ctx context.Context, param string) (*models.Package, error) {
	if objectIDShape.MatchString(param) {
		if id, err := primitive.ObjectIDFromHex(param); err == nil {
			p, err := s.store.FindByID(ctx, id)
			if err == nil {
				return p, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
	}
	return s.store.FindBySlug(ctx, param)
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Package, error) {
	p := &models.Package{
		Itinerary:  []string{},
		Inclusions: []string{},
		Exclusions: []string{},
		Images:     []string{},
	}
	if _, err := apply(p, in); err != nil {
		return nil, err
	}
	if p.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalid)
	}

	now := s.now()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.save(ctx, p, false, s.store.Insert); err != nil {
		return nil, err
	}

	mq.Notify(ctx, s.pub, s.log, "package.created", event(p, "POST"))
	return p, nil
}

func (s *Service) Update(ctx context.Context, param string, in Input) (*models.Package, error) {
	p, err := s.Resolve(ctx, param)
	if err != nil {
		return nil, err
	}

	titleModified, err := apply(p, in)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now()

	if err := s.save(ctx, p, titleModified, s.store.Replace); err != nil {
		return nil, err
	}

	mq.Notify(ctx, s.pub, s.log, "package.updated", event(p, "PUT"))
	return p, nil
}

func (s *Service) Delete(ctx context.Context, param string) error {
	p, err := s.Resolve(ctx, param)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, p.ID); err != nil {
		return err
	}

	mq.Notify(ctx, s.pub, s.log, "package.deleted", event(p, "DELETE"))
	return nil
}

// save runs the slug hook and the write. The unique index is the real
// guard: when it rejects the slug, the slug is recomputed and the write
// retried.
func (s *Service) save(ctx context.Context, p *models.Package, titleModified bool, write func(context.Context, *models.Package) error) error {
	for attempt := 0; ; attempt++ {
		if err := s.assignSlug(ctx, p, titleModified || attempt > 0); err != nil {
			return err
		}

		err := write(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateSlug) {
			return err
		}
		if attempt == maxSlugRetries {
			s.log.WarnContext(ctx, "slug conflict persisted", "slug", p.Slug, "attempts", attempt+1)
			return ErrSlugConflict
		}
		s.log.InfoContext(ctx, "slug taken concurrently, retrying", "slug", p.Slug)
	}
}

// assignSlug sets p.Slug when it is missing or when regenerate is set.
// A title with no sluggable characters leaves the slug as it was.
func (s *Service) assignSlug(ctx context.Context, p *models.Package, regenerate bool) error {
	if p.Slug != "" && !regenerate {
		return nil
	}

	base := slug.Generate(p.Title)
	if base == "" {
		return nil
	}

	existing, err := s.store.SlugsWithPrefix(ctx, base, p.ID)
	if err != nil {
		return fmt.Errorf("load sibling slugs: %w", err)
	}
	p.Slug = slug.MakeUnique(base, existing)
	return nil
}

// apply merges in onto p and reports whether the title changed.
func apply(p *models.Package, in Input) (bool, error) {
	titleModified := false
	if in.Title != nil {
		title := sanitizer.StripTags(*in.Title)
		if title == "" {
			return false, fmt.Errorf("%w: title is required", ErrInvalid)
		}
		titleModified = title != p.Title
		p.Title = title
	}
	if in.Images != nil {
		images := make([]string, 0, len(*in.Images))
		for _, raw := range *in.Images {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			if !isHTTPURL(raw) {
				return false, fmt.Errorf("%w: image %q is not an http(s) URL", ErrInvalid, raw)
			}
			images = append(images, raw)
		}
		p.Images = images
	}

	setText(&p.Duration, in.Duration)
	setText(&p.Price, in.Price)
	setText(&p.Overview, in.Overview)
	setText(&p.Visa, in.Visa)
	setText(&p.BestTime, in.BestTime)
	setList(&p.Itinerary, in.Itinerary)
	setList(&p.Inclusions, in.Inclusions)
	setList(&p.Exclusions, in.Exclusions)
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return titleModified, nil
}

func setText(dst *string, v *string) {
	if v != nil {
		*dst = sanitizer.StripTags(*v)
	}
}

func setList(dst *[]string, v *[]string) {
	if v != nil {
		*dst = sanitizer.StripTagsAll(*v)
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func event(p *models.Package, method string) models.Index {
	return models.Index{
		EntityType: "package",
		Method:     method,
		EntityId:   p.ID.Hex(),
		Slug:       p.Slug,
	}
}
