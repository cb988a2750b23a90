package server

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/config"
	"github.com/hpclab/labsite/internal/handler"
	"github.com/hpclab/labsite/internal/middleware"
	"github.com/hpclab/labsite/internal/repository"
	"github.com/hpclab/labsite/internal/service"
	"github.com/hpclab/labsite/pkg/mailer"
	"github.com/hpclab/labsite/pkg/storage"
	"github.com/hpclab/labsite/pkg/token"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	fileStorage, err := storage.NewDiskStorage(cfg.UploadRoot)
	if err != nil {
		log.Fatalf("failed to initialize file storage: %v", err)
	}

	// Search is optional: no configured host means every index call degrades
	// to a no-op and /search answers 503.
	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliHost != "" {
		host := cfg.MeiliHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	searchSvc := service.NewSearchService(meiliClient)

	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	tokens := token.NewService(cfg.JWTSecret, cfg.SessionTTL)

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	fileRepo := repository.NewFileRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	imageRepo := repository.NewImageRepository(db)

	authSvc := service.NewAuthService(userRepo, tokens, redisClient)
	authHandler := handler.NewAuthHandler(authSvc)

	profileSvc := service.NewProfileService(userRepo, fileStorage)
	profileHandler := handler.NewProfileHandler(profileSvc)

	userSvc := service.NewUserService(userRepo, fileStorage)
	userHandler := handler.NewUserHandler(userSvc)

	groupSvc := service.NewGroupService(groupRepo)
	groupHandler := handler.NewGroupHandler(groupSvc)

	newsSvc := service.NewNewsService(newsRepo, searchSvc)
	newsHandler := handler.NewNewsHandler(newsSvc)

	achievementSvc := service.NewAchievementService(achievementRepo, searchSvc)
	achievementHandler := handler.NewAchievementHandler(achievementSvc)

	blogSvc := service.NewBlogService(blogRepo, fileRepo, fileStorage, searchSvc, mail, cfg.NotifyEmail, redisClient)
	blogHandler := handler.NewBlogHandler(blogSvc, groupSvc)

	documentSvc := service.NewDocumentService(documentRepo, fileStorage)
	documentHandler := handler.NewDocumentHandler(documentSvc)

	imageSvc := service.NewImageService(imageRepo, fileStorage)
	imageHandler := handler.NewImageHandler(imageSvc)

	homeSvc := service.NewHomeService(userRepo, newsRepo, achievementRepo, blogRepo, imageRepo)
	publicHandler := handler.NewPublicHandler(homeSvc, searchSvc)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Editor images, avatars and carousel slides are served directly; records
	// only carry their URLs.
	router.Static("/images", filepath.Join(cfg.UploadRoot, storage.DirImages))

	// Public site
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)
	router.POST("/signup", authHandler.Signup)
	router.GET("/home", publicHandler.Home)
	router.GET("/member", publicHandler.Members)
	router.GET("/news", newsHandler.Public)
	router.GET("/achievement", achievementHandler.Public)
	router.GET("/activity", blogHandler.Public)
	router.GET("/download", documentHandler.List)
	router.GET("/download/file", documentHandler.Download)
	router.GET("/search", publicHandler.Search)

	// Attachment downloads are public URLs but gated on a session: the auth
	// middleware falls back to the session cookie, so a logged-in browser can
	// follow a plain link.
	router.GET("/file", middleware.RequireAuth(tokens), blogHandler.Download)

	api := router.Group("/api")
	api.Use(middleware.RequireAuth(tokens))
	{
		api.GET("/profile", profileHandler.Get)
		api.POST("/profile", profileHandler.Update)
		api.POST("/avatar", profileHandler.UpdateAvatar)
		api.POST("/password", authHandler.ChangePassword)

		api.POST("/publication", profileHandler.AddPublication)
		api.DELETE("/publication", profileHandler.RemovePublication)
		api.POST("/education", profileHandler.AddEducation)
		api.DELETE("/education", profileHandler.RemoveEducation)
		api.POST("/award", profileHandler.AddAward)
		api.DELETE("/award", profileHandler.RemoveAward)

		api.GET("/group", groupHandler.List)

		api.GET("/blog", blogHandler.List)
		api.GET("/blog/detail", blogHandler.Get)
		api.POST("/blog", blogHandler.Save)
		api.DELETE("/blog", blogHandler.Delete)
		api.DELETE("/file", blogHandler.DeleteFile)

		api.POST("/image", imageHandler.StoreContent)

		api.POST("/doc", documentHandler.Upload)

		admin := api.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/user", userHandler.List)
			admin.POST("/user", userHandler.Save)
			admin.DELETE("/user", userHandler.Delete)
			admin.POST("/reset_password", authHandler.ResetPassword)

			admin.POST("/group", groupHandler.Save)
			admin.DELETE("/group", groupHandler.Delete)

			admin.GET("/news", newsHandler.Admin)
			admin.POST("/news", newsHandler.Save)
			admin.DELETE("/news", newsHandler.Delete)

			admin.GET("/achievement", achievementHandler.Admin)
			admin.POST("/achievement", achievementHandler.Save)
			admin.DELETE("/achievement", achievementHandler.Delete)

			admin.GET("/carousel_image", imageHandler.ListCarousel)
			admin.POST("/carousel_image", imageHandler.UploadCarousel)
			admin.DELETE("/carousel_image", imageHandler.DeleteCarousel)

			admin.DELETE("/doc", documentHandler.Delete)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
