package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-backoffice-service/internal/alert"
	alertdto "github.com/fekuna/omnipos-backoffice-service/internal/alert/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/faq"
	faqdto "github.com/fekuna/omnipos-backoffice-service/internal/faq/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/feedback"
	feedbackdto "github.com/fekuna/omnipos-backoffice-service/internal/feedback/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

var (
	_ feedback.Repository = (*FeedbackRepository)(nil)
	_ alert.Repository    = (*AlertRepository)(nil)
	_ faq.Repository      = (*FaqRepository)(nil)
)

type FeedbackRepository struct{ s *Store }

func (s *Store) Feedback() *FeedbackRepository { return &FeedbackRepository{s: s} }

func (r *FeedbackRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	defer r.s.lock(ctx)()
	_, ok := r.s.t.products[productID]
	return ok, nil
}

func (r *FeedbackRepository) CreateReview(ctx context.Context, rv *model.Review) error {
	defer r.s.lock(ctx)()
	r.s.t.reviews[rv.ID] = *rv
	return nil
}

func (r *FeedbackRepository) FindReviewByID(ctx context.Context, id string) (*model.Review, error) {
	defer r.s.lock(ctx)()
	rv, ok := r.s.t.reviews[id]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (r *FeedbackRepository) FindReviews(ctx context.Context, f *feedbackdto.ReviewFilters) ([]model.Review, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Review{}
	for _, rv := range r.s.t.reviews {
		if f.ProductID != "" && rv.ProductID != f.ProductID {
			continue
		}
		if f.Email != "" && !strings.EqualFold(rv.Email, f.Email) {
			continue
		}
		if rv.Rate < f.MinRate {
			continue
		}
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *FeedbackRepository) DeleteReview(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	delete(r.s.t.reviews, id)
	return nil
}

func (r *FeedbackRepository) UpsertLike(ctx context.Context, like *model.Like) (*model.Like, error) {
	defer r.s.lock(ctx)()
	for k, l := range r.s.t.likes {
		if l.ProductID == like.ProductID && l.Email == like.Email {
			l.Liked = like.Liked
			r.s.t.likes[k] = l
			return &l, nil
		}
	}
	stored := *like
	r.s.t.likes[like.ID] = stored
	return &stored, nil
}

func (r *FeedbackRepository) FindLikeByID(ctx context.Context, id string) (*model.Like, error) {
	defer r.s.lock(ctx)()
	l, ok := r.s.t.likes[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *FeedbackRepository) FindLikes(ctx context.Context, f *feedbackdto.LikeFilters) ([]model.Like, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Like{}
	for _, l := range r.s.t.likes {
		if f.ProductID != "" && l.ProductID != f.ProductID {
			continue
		}
		if f.Email != "" && !strings.EqualFold(l.Email, f.Email) {
			continue
		}
		if f.Liked != nil && l.Liked != *f.Liked {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *FeedbackRepository) DeleteLike(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	delete(r.s.t.likes, id)
	return nil
}

type AlertRepository struct{ s *Store }

func (s *Store) Alerts() *AlertRepository { return &AlertRepository{s: s} }

func (r *AlertRepository) Create(ctx context.Context, a *model.Alert) error {
	defer r.s.lock(ctx)()
	r.s.t.alerts[a.ID] = *a
	return nil
}

func (r *AlertRepository) FindByID(ctx context.Context, id string) (*model.Alert, error) {
	defer r.s.lock(ctx)()
	a, ok := r.s.t.alerts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AlertRepository) LockByID(ctx context.Context, id string) (*model.Alert, error) {
	return r.FindByID(ctx, id)
}

func (r *AlertRepository) FindAll(ctx context.Context, f *alertdto.AlertFilters) ([]model.Alert, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Alert{}
	for _, a := range r.s.t.alerts {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.UserID != "" && deref(a.UserID) != f.UserID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *AlertRepository) Update(ctx context.Context, a *model.Alert) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.alerts[a.ID]; ok {
		r.s.t.alerts[a.ID] = *a
	}
	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	delete(r.s.t.alerts, id)
	return nil
}

type FaqRepository struct{ s *Store }

func (s *Store) Faqs() *FaqRepository { return &FaqRepository{s: s} }

func (r *FaqRepository) Create(ctx context.Context, f *model.Faq) error {
	defer r.s.lock(ctx)()
	r.s.t.faqs[f.ID] = *f
	return nil
}

func (r *FaqRepository) FindByID(ctx context.Context, id string) (*model.Faq, error) {
	defer r.s.lock(ctx)()
	f, ok := r.s.t.faqs[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *FaqRepository) FindAll(ctx context.Context, f *faqdto.FaqFilters) ([]model.Faq, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Faq{}
	for _, q := range r.s.t.faqs {
		if f.Type != "" && q.Type != f.Type {
			continue
		}
		if f.Search != "" && !contains(q.Question, f.Search) && !contains(q.Answer, f.Search) {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *FaqRepository) Update(ctx context.Context, f *model.Faq) error {
	defer r.s.lock(ctx)()
	if existing, ok := r.s.t.faqs[f.ID]; ok {
		row := *f
		row.CreatedAt = existing.CreatedAt
		r.s.t.faqs[f.ID] = row
	}
	return nil
}

func (r *FaqRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	delete(r.s.t.faqs, id)
	return nil
}
