package router

import (
	"fmt"
	"net/http"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/auth"
	"foodgram/internal/modules/cart"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/modules/favorite"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/shoppinglist"
	"foodgram/internal/modules/subscription"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
	"foodgram/internal/repository"
	"foodgram/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIPrefix is where every module mounts its routes.
const APIPrefix = "/api"

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Store  storage.Store
	Log    *zap.Logger
}

// New wires repositories, services and handlers into a gin engine.
func New(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	sqlxDB, err := database.SQLX(d.DB)
	if err != nil {
		return nil, fmt.Errorf("reporting pool: %w", err)
	}

	userRepo := repository.NewUserRepository(d.DB)
	tokenRepo := repository.NewTokenRepository(d.DB)
	tagRepo := repository.NewTagRepository(d.DB)
	ingredientRepo := repository.NewIngredientRepository(d.DB)
	recipeRepo := repository.NewRecipeRepository(d.DB)
	favoriteRepo := repository.NewFavoriteRepository(d.DB)
	cartRepo := repository.NewShoppingCartRepository(d.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(d.DB)

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.TokenTTL)

	authService := auth.NewService(userRepo, tokenRepo, subscriptionRepo, tokens)
	catalogService := catalog.NewService(tagRepo, ingredientRepo)
	recipeService := recipe.NewService(recipe.Deps{
		Recipes:       recipeRepo,
		Tags:          tagRepo,
		Ingredients:   ingredientRepo,
		Favorites:     favoriteRepo,
		Cart:          cartRepo,
		Subscriptions: subscriptionRepo,
		Users:         userRepo,
		Images:        d.Store,
		Log:           log.Named("recipe"),
	})
	favoriteService := favorite.NewService(recipeRepo, favoriteRepo, d.Store)
	cartService := cart.NewService(recipeRepo, cartRepo, d.Store)
	subscriptionService := subscription.NewService(subscriptionRepo, userRepo, recipeRepo, d.Store)
	shoppingService := shoppinglist.NewService(
		shoppinglist.NewAggregator(sqlxDB),
		shoppinglist.NewPDFRenderer(cfg.PDFFontPath),
	)

	metrics := middleware.NewMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics.PrometheusCollectors()...)
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := gin.New()
	r.Use(
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RequestLogger(log),
		metrics.Handler(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if local, ok := d.Store.(*storage.LocalStore); ok {
		r.Static(cfg.MediaURL, local.Root())
	}

	api := r.Group(APIPrefix)
	api.Use(middleware.Authenticate(tokens, authService))
	{
		catalog.NewHandler(catalogService).RegisterRoutes(api)
		auth.NewHandler(authService, cfg.PageSize).RegisterRoutes(api)
		subscription.NewHandler(subscriptionService, cfg.PageSize).RegisterRoutes(api)
		shoppinglist.NewHandler(shoppingService).RegisterRoutes(api)
		recipe.NewHandler(recipeService, cfg.PageSize).RegisterRoutes(api)
		favorite.NewHandler(favoriteService).RegisterRoutes(api)
		cart.NewHandler(cartService).RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found.")
	})

	return r, nil
}
