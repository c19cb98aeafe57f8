package newsletter

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/i18n"
	"github.com/soldertec/site/internal/pkg/mail"
)

// notifyConcurrency caps in-flight sends of one blog notification.
const notifyConcurrency = 5

// PostSource resolves posts for blog notifications.
type PostSource interface {
	// PublishedPost returns the post with its contents, or (nil, nil).
	PublishedPost(ctx context.Context, id string) (*models.PostModel, error)
	MarkNotified(ctx context.Context, id string, at time.Time) error
}

// NotifyResult counts delivered and failed notification emails.
type NotifyResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// SetPostSource wires the blog module in after construction.
func (s *Service) SetPostSource(posts PostSource) {
	s.posts = posts
}

// NotifyPost emails a published post to every confirmed subscriber in the
// subscriber's language. Individual failures are logged and counted.
func (s *Service) NotifyPost(ctx context.Context, postID string) (NotifyResult, error) {
	if postID == "" {
		return NotifyResult{}, apperr.Validation("postId is required", "postId")
	}
	if s.posts == nil {
		return NotifyResult{}, apperr.NotFound("post")
	}
	post, err := s.posts.PublishedPost(ctx, postID)
	if err != nil {
		return NotifyResult{}, apperr.Persistence("find post", err)
	}
	if post == nil || !post.IsPublic(s.now()) {
		return NotifyResult{}, apperr.NotFound("post")
	}

	subs, err := s.store.ListConfirmed(ctx)
	if err != nil {
		return NotifyResult{}, apperr.Persistence("list subscribers", err)
	}

	// Render once per language.
	drafts := make(map[i18n.Lang]mail.Post, len(i18n.Supported))
	for _, lang := range i18n.Supported {
		c, ok := post.Content(string(lang))
		if !ok {
			return NotifyResult{}, apperr.Validation("post has no content")
		}
		drafts[lang] = mail.Post{
			Title:      c.Title,
			Excerpt:    c.Excerpt,
			URL:        s.postURL(post.Slug, lang),
			CoverImage: post.CoverImage,
		}
	}

	var sent, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(notifyConcurrency)
	for i := range subs {
		sub := subs[i]
		g.Go(func() error {
			lang := i18n.Normalize(sub.Language)
			msg, err := s.renderer.BlogNotification(lang, drafts[lang], s.UnsubscribeURL(sub.UnsubscribeToken))
			if err == nil {
				msg.To = []string{sub.Email}
				_, err = s.sender.Send(gctx, msg)
			}
			if err != nil {
				failed.Add(1)
				s.logger.Warn("blog notification failed",
					zap.String("post", post.ID), zap.String("subscriber", sub.ID), zap.Error(err))
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := NotifyResult{Sent: int(sent.Load()), Failed: int(failed.Load())}
	if res.Sent > 0 {
		if err := s.posts.MarkNotified(ctx, post.ID, s.now()); err != nil {
			s.logger.Warn("mark post notified failed", zap.String("post", post.ID), zap.Error(err))
		}
	}
	s.logger.Info("blog notification dispatched",
		zap.String("post", post.ID), zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
	return res, nil
}

func (s *Service) postURL(slug string, lang i18n.Lang) string {
	return fmt.Sprintf("%s/blog/%s?lang=%s", s.opts.SiteURL, url.PathEscape(slug), lang)
}
