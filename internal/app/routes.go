package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soldertec/site/internal/middleware"
	"github.com/soldertec/site/internal/modules/catalog"
	"github.com/soldertec/site/internal/modules/contact"
	"github.com/soldertec/site/internal/modules/content/category"
	"github.com/soldertec/site/internal/modules/content/post"
	"github.com/soldertec/site/internal/modules/content/tag"
	"github.com/soldertec/site/internal/modules/image"
	"github.com/soldertec/site/internal/modules/newsletter"
	"github.com/soldertec/site/internal/pkg/emailsuggest"
	"github.com/soldertec/site/internal/pkg/jwt"
	"github.com/soldertec/site/internal/pkg/mail"
	"github.com/soldertec/site/internal/pkg/response"
	"github.com/soldertec/site/internal/pkg/validate"
)

const companyName = "Soldertec"

type services struct {
	newsletter *newsletter.Service
	posts      *post.Service
	categories *category.Service
	tags       *tag.Service
	contact    *contact.Service
	catalog    *catalog.Service
	images     *image.Service
	suggester  *emailsuggest.Suggester
	verifier   *jwt.Verifier
}

func (a *App) buildServices() *services {
	db := a.deps.DB
	v := validate.New()
	renderer := mail.NewRenderer(a.cfg.SiteURL, companyName)

	s := &services{
		posts:      post.NewService(db, v),
		categories: category.NewService(db, v),
		tags:       tag.NewService(db, v),
		contact:    contact.NewService(a.deps.Mail, renderer, v, a.cfg.Mail.SalesInbox, a.logger.Named("contact")),
		suggester:  emailsuggest.New(),
	}
	s.newsletter = newsletter.NewService(newsletter.NewGormStore(db), a.deps.Mail, renderer, a.logger.Named("newsletter"),
		newsletter.Options{
			SiteURL:                a.cfg.SiteURL,
			RotateUnsubscribeToken: a.cfg.Newsletter.RotateUnsubscribeToken,
		})
	s.newsletter.SetPostSource(s.posts)

	s.catalog = catalog.NewService(db, a.deps.Catalogs, a.deps.Mail, renderer, v,
		catalog.Options{Keys: a.cfg.Storage.CatalogKeys, TTL: a.cfg.Storage.PresignTTL}, a.logger.Named("catalog"))
	if a.deps.Images != nil {
		s.images = image.NewService(a.deps.Images)
	}
	if a.cfg.AuthEnabled() {
		s.verifier = jwt.NewVerifier(a.cfg.Supabase.JWTSecret, a.cfg.Supabase.URL, a.cfg.Supabase.AdminEmails)
	} else {
		a.logger.Warn("supabase.jwt_secret is empty; admin routes answer 503")
	}
	return s
}

func (a *App) registerRoutes(s *services) {
	r := a.router
	showDetails := a.cfg.IsDev()
	authMW := middleware.Auth(s.verifier)

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })

	api := r.Group("/api")
	api.Use(middleware.Maintenance(a.maintenance.Load,
		"/api/status",
		"/api/health",
		"/api/admin/*",
		"/api/newsletter/analytics",
		"/api/newsletter/subscribers",
		"/api/newsletter/send-blog-notification",
	))

	api.GET("/status", a.status)
	api.GET("/health", a.health)

	// public forms
	forms := api.Group("", middleware.RateLimit(a.kv, middleware.RateLimitOptions{}, a.logger.Named("ratelimit")))
	contact.NewHandler(s.contact, s.suggester, a.logger.Named("contact"), showDetails).RegisterRoutes(forms)
	catalog.NewHandler(s.catalog, a.logger.Named("catalog"), showDetails).RegisterRoutes(forms)
	newsletter.NewHandler(s.newsletter, a.logger.Named("newsletter"), showDetails).
		RegisterRoutes(forms, authMW, middleware.Idempotence(a.kv))

	// blog
	a.cache = middleware.NewHTTPCache(a.kv, middleware.HTTPCacheOptions{})
	cache := a.cache
	posts := post.NewHandler(s.posts, a.logger.Named("posts"), showDetails)
	categories := category.NewHandler(s.categories, a.logger.Named("categories"), showDetails)
	tags := tag.NewHandler(s.tags, a.logger.Named("tags"), showDetails)
	posts.SetCachePurger(cache)
	categories.SetCachePurger(cache)
	tags.SetCachePurger(cache)
	posts.RegisterRoutes(api, authMW, cache.Handler())
	categories.RegisterRoutes(api, authMW, cache.Handler())
	tags.RegisterRoutes(api, authMW, cache.Handler())

	// admin
	if s.images != nil {
		image.NewHandler(s.images, a.logger.Named("images"), showDetails).RegisterRoutes(api, authMW)
	} else {
		api.Any("/admin/images", authMW, func(c *gin.Context) {
			response.Abort(c, http.StatusServiceUnavailable, "image storage is not configured")
		})
	}
	admin := api.Group("/admin", authMW)
	admin.GET("/cron", a.listJobs)
	admin.POST("/cron/:name/run", a.runJob)
	admin.PUT("/maintenance", a.setMaintenance)
}
