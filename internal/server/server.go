package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/voozea/voozea/internal/auth"
	authdomain "github.com/voozea/voozea/internal/auth/domain"
	"github.com/voozea/voozea/internal/auth/session"
	"github.com/voozea/voozea/internal/business"
	businessdomain "github.com/voozea/voozea/internal/business/domain"
	"github.com/voozea/voozea/internal/cache"
	"github.com/voozea/voozea/internal/category"
	categorydomain "github.com/voozea/voozea/internal/category/domain"
	"github.com/voozea/voozea/internal/config"
	"github.com/voozea/voozea/internal/entity"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	"github.com/voozea/voozea/internal/notification"
	notificationdomain "github.com/voozea/voozea/internal/notification/domain"
	"github.com/voozea/voozea/internal/observability"
	obslogger "github.com/voozea/voozea/internal/observability/logger"
	obsmetrics "github.com/voozea/voozea/internal/observability/metrics"
	obstracing "github.com/voozea/voozea/internal/observability/tracing"
	"github.com/voozea/voozea/internal/product"
	productdomain "github.com/voozea/voozea/internal/product/domain"
	"github.com/voozea/voozea/internal/profile"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
	"github.com/voozea/voozea/internal/ratelimit"
	"github.com/voozea/voozea/internal/rating"
	ratingdomain "github.com/voozea/voozea/internal/rating/domain"
	"github.com/voozea/voozea/internal/search"
	searchdomain "github.com/voozea/voozea/internal/search/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	cache.Module,
	auth.Module,
	session.Module,
	profile.Module,
	entity.Module,
	business.Module,
	category.Module,
	product.Module,
	rating.Module,
	notification.Module,
	search.Module,
	ratelimit.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware(obsCfg.ServiceName))
	r.Use(metrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	sessions        *session.Manager
	authSvc         authdomain.Service
	profileSvc      profiledomain.Service
	entitySvc       entitydomain.Service
	businessSvc     businessdomain.Service
	categorySvc     categorydomain.Service
	productSvc      productdomain.Service
	ratingSvc       ratingdomain.Service
	notificationSvc notificationdomain.Service
	searchSvc       searchdomain.Service
	actionLimiter   *ratelimit.ActionLimiter
	metrics         *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	Sessions        *session.Manager
	AuthSvc         authdomain.Service
	ProfileSvc      profiledomain.Service
	EntitySvc       entitydomain.Service
	BusinessSvc     businessdomain.Service
	CategorySvc     categorydomain.Service
	ProductSvc      productdomain.Service
	RatingSvc       ratingdomain.Service
	NotificationSvc notificationdomain.Service
	SearchSvc       searchdomain.Service
	ActionLimiter   *ratelimit.ActionLimiter `optional:"true"`
	Metrics         *obsmetrics.Metrics
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		sessions:        p.Sessions,
		authSvc:         p.AuthSvc,
		profileSvc:      p.ProfileSvc,
		entitySvc:       p.EntitySvc,
		businessSvc:     p.BusinessSvc,
		categorySvc:     p.CategorySvc,
		productSvc:      p.ProductSvc,
		ratingSvc:       p.RatingSvc,
		notificationSvc: p.NotificationSvc,
		searchSvc:       p.SearchSvc,
		actionLimiter:   p.ActionLimiter,
		metrics:         p.Metrics,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()
	s.registerAdminRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/signup", s.Signup)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.AuthRequired(), s.Me)
	authGroup.POST("/change-password", s.AuthRequired(), s.ChangePassword)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Profiles --------
	api.GET("/profiles/:username", s.GetProfileByUsername)
	api.PATCH("/profile", s.AuthRequired(), s.UpdateProfile)
	api.POST("/profile/onboarding/complete", s.AuthRequired(), s.CompleteOnboarding)
	api.POST("/profile/onboarding/skip", s.AuthRequired(), s.SkipOnboarding)
	api.GET("/profile/suggested-users", s.AuthRequired(), s.SuggestedUsers)

	// -------- Entities --------
	api.GET("/entities/:id", s.ResolveEntity)
	api.GET("/entities/actable", s.AuthRequired(), s.ListActableEntities)
	api.POST("/entities/follow", s.AuthRequired(), s.FollowEntity)
	api.POST("/entities/unfollow", s.AuthRequired(), s.UnfollowEntity)
	api.POST("/entities/follow/batch", s.AuthRequired(), s.FollowEntitiesBatch)
	// Read-only probe for UI state; intentionally unauthenticated.
	api.GET("/entities/:id/is-following/:target", s.IsFollowingEntity)
	api.GET("/entities/:id/followers", s.ListEntityFollowers)
	api.GET("/entities/:id/following", s.ListEntityFollowing)
	api.GET("/entities/search", s.AuthRequired(), s.SearchRateLimit(), s.SearchEntities)

	// -------- Businesses --------
	api.POST("/businesses", s.AuthRequired(), s.CreateBusiness)
	api.GET("/businesses/:id", s.GetBusiness)
	api.GET("/businesses/slug/:slug", s.GetBusinessBySlug)
	api.PATCH("/businesses/:id", s.AuthRequired(), s.UpdateBusiness)
	api.GET("/businesses/:id/role", s.AuthRequired(), s.GetBusinessRole)
	api.POST("/businesses/:id/follow", s.AuthRequired(), s.FollowBusiness)
	api.POST("/businesses/:id/unfollow", s.AuthRequired(), s.UnfollowBusiness)

	// -------- Claims --------
	api.POST("/businesses/:id/claims", s.AuthRequired(), s.ClaimRateLimit(), s.SubmitClaim)
	api.DELETE("/claims/:id", s.AuthRequired(), s.CancelClaim)

	// -------- Team --------
	api.GET("/businesses/:id/team", s.AuthRequired(), s.ListTeam)
	api.POST("/businesses/:id/team/invites", s.AuthRequired(), s.InviteManager)
	api.POST("/team/invites/:id/accept", s.AuthRequired(), s.AcceptInvite)
	api.POST("/team/invites/:id/decline", s.AuthRequired(), s.DeclineInvite)
	api.POST("/businesses/:id/team/remove", s.AuthRequired(), s.RemoveManager)
	api.POST("/businesses/:id/transfer", s.AuthRequired(), s.TransferOwnership)

	// -------- Categories (read) --------
	api.GET("/categories", s.ListCategories)

	// -------- Products --------
	api.POST("/products", s.AuthRequired(), s.CreateProduct)
	api.GET("/products/:id", s.GetProduct)
	api.PATCH("/products/:id", s.AuthRequired(), s.UpdateProduct)
	api.DELETE("/products/:id", s.AuthRequired(), s.DeleteProduct)
	api.GET("/businesses/:id/products", s.ListBusinessProducts)

	// -------- Ratings --------
	api.POST("/ratings", s.AuthRequired(), s.Rate)
	api.DELETE("/ratings/:id", s.AuthRequired(), s.DeleteRating)
	api.GET("/products/:id/ratings", s.ListProductRatings)
	api.GET("/users/:id/ratings", s.ListUserRatings)
	api.POST("/ratings/:id/like", s.AuthRequired(), s.LikeRating)
	api.POST("/ratings/:id/unlike", s.AuthRequired(), s.UnlikeRating)
	api.GET("/ratings/:id/comments", s.ListRatingComments)
	api.POST("/ratings/:id/comments", s.AuthRequired(), s.AddRatingComment)
	api.DELETE("/comments/:id", s.AuthRequired(), s.DeleteRatingComment)

	// -------- Notifications --------
	api.GET("/notifications", s.AuthRequired(), s.ListNotifications)
	api.GET("/notifications/unread-count", s.AuthRequired(), s.UnreadNotificationCount)
	api.POST("/notifications/:id/read", s.AuthRequired(), s.MarkNotificationRead)
	api.POST("/notifications/read-all", s.AuthRequired(), s.MarkAllNotificationsRead)

	// -------- Search --------
	api.GET("/search", s.SearchRateLimit(), s.GlobalSearch)

	if s.cfg.Environment != "production" {
		api.POST("/test/cleanup", s.TestCleanup)
	}
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.Use(s.AuthRequired())
	admin.Use(s.AdminRequired())

	admin.POST("/businesses/:id/verify", s.VerifyBusiness)

	admin.GET("/claims", s.ListClaims)
	admin.POST("/claims/:id/approve", s.ApproveClaim)
	admin.POST("/claims/:id/reject", s.RejectClaim)

	admin.GET("/categories", s.ListCategories)
	admin.POST("/categories", s.CreateCategory)
	admin.PATCH("/categories/:id", s.UpdateCategory)
	admin.DELETE("/categories/:id", s.DeleteCategory)

	admin.GET("/stats", s.AdminStats)
}
