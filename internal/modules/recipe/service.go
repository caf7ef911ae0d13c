package recipe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/imagedata"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
	"foodgram/internal/storage"
	"foodgram/internal/view"

	"go.uber.org/zap"
)

const imageDir = "recipes"

// Service mutates and reads the recipe aggregate. Images are written to the
// store before the database transaction and removed again if it fails.
type Service struct {
	recipes       RecipeRepository
	tags          ReferenceChecker
	ingredients   ReferenceChecker
	favorites     MarkReader
	cart          MarkReader
	subscriptions SubscriptionChecker
	users         UserLookup
	images        storage.Store
	log           *zap.Logger
	now           func() time.Time
}

type Deps struct {
	Recipes       RecipeRepository
	Tags          ReferenceChecker
	Ingredients   ReferenceChecker
	Favorites     MarkReader
	Cart          MarkReader
	Subscriptions SubscriptionChecker
	Users         UserLookup
	Images        storage.Store
	Log           *zap.Logger
}

func NewService(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		recipes:       d.Recipes,
		tags:          d.Tags,
		ingredients:   d.Ingredients,
		favorites:     d.Favorites,
		cart:          d.Cart,
		subscriptions: d.Subscriptions,
		users:         d.Users,
		images:        d.Images,
		log:           log.With(zap.String("service", "recipe")),
		now:           time.Now,
	}
}

// Create validates the whole payload, stores the image, then writes the
// recipe, its line items and tag links in one transaction.
func (s *Service) Create(ctx context.Context, requester domain.Requester, req RecipeRequest) (view.Recipe, error) {
	if requester.IsAnonymous() {
		return view.Recipe{}, ErrAuthRequired
	}

	img, err := s.validate(ctx, &req, true)
	if err != nil {
		return view.Recipe{}, err
	}

	key, err := s.images.Save(ctx, imageDir, img.Data, img.Ext)
	if err != nil {
		return view.Recipe{}, fmt.Errorf("store recipe image: %w", err)
	}

	recipe := &domain.Recipe{
		AuthorID:    requester.UserID,
		Name:        req.Name,
		Image:       key,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		PublishedAt: s.now().UTC(),
	}
	if err := s.recipes.Create(ctx, recipe, lineItems(req), req.Tags); err != nil {
		s.removeImage(ctx, key)
		return view.Recipe{}, err
	}

	s.log.Info("recipe created", zap.Int64("recipe_id", recipe.ID), zap.Int64("author_id", recipe.AuthorID))
	return s.Get(ctx, recipe.ID, requester)
}

// Update replaces every mutable field, the line items and the tag links.
// The image is kept when the payload omits it.
func (s *Service) Update(ctx context.Context, id int64, requester domain.Requester, req RecipeRequest) (view.Recipe, error) {
	authorID, oldImage, err := s.ownership(ctx, id, requester)
	if err != nil {
		return view.Recipe{}, err
	}

	img, err := s.validate(ctx, &req, false)
	if err != nil {
		return view.Recipe{}, err
	}

	key := oldImage
	if img != nil {
		key, err = s.images.Save(ctx, imageDir, img.Data, img.Ext)
		if err != nil {
			return view.Recipe{}, fmt.Errorf("store recipe image: %w", err)
		}
	}

	recipe := &domain.Recipe{
		ID:          id,
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       key,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	if err := s.recipes.Replace(ctx, recipe, lineItems(req), req.Tags); err != nil {
		if img != nil {
			s.removeImage(ctx, key)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return view.Recipe{}, ErrRecipeNotFound
		}
		return view.Recipe{}, err
	}

	if img != nil && oldImage != "" && oldImage != key {
		s.removeImage(ctx, oldImage)
	}
	return s.Get(ctx, id, requester)
}

// Delete removes the aggregate, then its image. A failed image removal is
// logged and does not undo the delete.
func (s *Service) Delete(ctx context.Context, id int64, requester domain.Requester) error {
	_, image, err := s.ownership(ctx, id, requester)
	if err != nil {
		return err
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	s.log.Info("recipe deleted", zap.Int64("recipe_id", id), zap.Int64("user_id", requester.UserID))
	if image != "" {
		s.removeImage(ctx, image)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64, requester domain.Requester) (view.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.Recipe{}, ErrRecipeNotFound
		}
		return view.Recipe{}, err
	}

	views, err := s.project(ctx, requester, []domain.Recipe{*recipe})
	if err != nil {
		return view.Recipe{}, err
	}
	return views[0], nil
}

// List pages through recipes, newest first. The favorite and cart filters
// only apply to authenticated requesters.
func (s *Service) List(ctx context.Context, requester domain.Requester, q ListQuery, p pagination.Params) (pagination.Page[view.Recipe], error) {
	if q.AuthorID > 0 {
		if _, err := s.users.GetByID(ctx, q.AuthorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return pagination.Page[view.Recipe]{}, ErrAuthorNotFound
			}
			return pagination.Page[view.Recipe]{}, err
		}
	}

	filter := repository.RecipeFilter{TagSlugs: q.TagSlugs, AuthorID: q.AuthorID}
	if !requester.IsAnonymous() {
		if q.IsFavorited {
			filter.FavoritedBy = requester.UserID
		}
		if q.IsInShoppingCart {
			filter.InCartOf = requester.UserID
		}
	}

	recipes, total, err := s.recipes.List(ctx, filter, p.Offset(), p.Limit)
	if err != nil {
		return pagination.Page[view.Recipe]{}, err
	}
	views, err := s.project(ctx, requester, recipes)
	if err != nil {
		return pagination.Page[view.Recipe]{}, err
	}
	return pagination.NewPage(views, total, p), nil
}

// ownership loads the author and image of id and checks requester may
// modify it.
func (s *Service) ownership(ctx context.Context, id int64, requester domain.Requester) (int64, string, error) {
	if requester.IsAnonymous() {
		return 0, "", ErrAuthRequired
	}
	authorID, image, err := s.recipes.GetOwnership(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, "", ErrRecipeNotFound
		}
		return 0, "", err
	}
	if !requester.CanModify(authorID) {
		return 0, "", ErrNotRecipeAuthor
	}
	return authorID, image, nil
}

// validate runs every payload check before anything is written and returns
// the decoded image, nil when none was given.
func (s *Service) validate(ctx context.Context, req *RecipeRequest, requireImage bool) (*imagedata.Image, error) {
	req.normalize()
	fields := validator.Validate(req)
	if fields == nil {
		fields = map[string]string{}
	}

	var img *imagedata.Image
	switch {
	case strings.TrimSpace(req.Image) == "":
		if requireImage {
			fields["image"] = msgImageRequired
		}
	default:
		decoded, err := imagedata.Decode(req.Image)
		if err != nil {
			fields["image"] = imageMessage(err)
		} else {
			img = decoded
		}
	}

	if _, bad := fields["tags"]; !bad && len(req.Tags) > 0 {
		if hasDuplicates(req.Tags) {
			fields["tags"] = msgDuplicateTags
		} else if msg, err := unknownIDs(ctx, s.tags, req.Tags, "tag"); err != nil {
			return nil, err
		} else if msg != "" {
			fields["tags"] = msg
		}
	}

	if _, bad := fields["ingredients"]; !bad && len(req.Ingredients) > 0 {
		ids := make([]int64, len(req.Ingredients))
		for i, item := range req.Ingredients {
			ids[i] = item.ID
		}
		if hasDuplicates(ids) {
			fields["ingredients"] = msgDuplicateIngredient
		} else if msg, err := unknownIDs(ctx, s.ingredients, ids, "ingredient"); err != nil {
			return nil, err
		} else if msg != "" {
			fields["ingredients"] = msg
		}
	}

	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	return img, nil
}

// project builds views with the requester's flags. Anonymous requesters get
// every flag false without touching the relationship tables.
func (s *Service) project(ctx context.Context, requester domain.Requester, recipes []domain.Recipe) ([]view.Recipe, error) {
	favorited := map[int64]bool{}
	inCart := map[int64]bool{}
	subscribed := map[int64]bool{}

	if !requester.IsAnonymous() && len(recipes) > 0 {
		ids := make([]int64, len(recipes))
		authorIDs := make([]int64, 0, len(recipes))
		for i := range recipes {
			ids[i] = recipes[i].ID
			authorIDs = append(authorIDs, recipes[i].AuthorID)
		}

		var err error
		if favorited, err = s.favorites.MarkedRecipes(ctx, requester.UserID, ids); err != nil {
			return nil, err
		}
		if inCart, err = s.cart.MarkedRecipes(ctx, requester.UserID, ids); err != nil {
			return nil, err
		}
		if subscribed, err = s.subscriptions.SubscribedAuthors(ctx, requester.UserID, authorIDs); err != nil {
			return nil, err
		}
	}

	views := make([]view.Recipe, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		views = append(views, view.NewRecipe(r, s.images, view.RecipeFlags{
			Favorited:        favorited[r.ID],
			InShoppingCart:   inCart[r.ID],
			AuthorSubscribed: subscribed[r.AuthorID],
		}))
	}
	return views, nil
}

func (s *Service) removeImage(ctx context.Context, key string) {
	if err := s.images.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.log.Warn("failed to remove recipe image", zap.String("key", key), zap.Error(err))
	}
}

func lineItems(req RecipeRequest) []domain.RecipeIngredient {
	items := make([]domain.RecipeIngredient, len(req.Ingredients))
	for i, in := range req.Ingredients {
		items[i] = domain.RecipeIngredient{IngredientID: in.ID, Amount: in.Amount}
	}
	return items
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func unknownIDs(ctx context.Context, checker ReferenceChecker, ids []int64, noun string) (string, error) {
	existing, err := checker.ExistingIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	var missing []int64
	for _, id := range ids {
		if !existing[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return "", nil
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	parts := make([]string, len(missing))
	for i, id := range missing {
		parts[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("Unknown %s id(s): %s.", noun, strings.Join(parts, ", ")), nil
}

func imageMessage(err error) string {
	switch {
	case errors.Is(err, imagedata.ErrTooLarge):
		return "The image is too large."
	case errors.Is(err, imagedata.ErrUnsupported):
		return "Upload a valid image. Supported formats are JPEG, PNG, GIF and WebP."
	}
	return "Upload a valid image. The data could not be decoded."
}
