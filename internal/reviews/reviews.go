package reviews

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"souq/internal/apperr"
	"souq/internal/logging"
	"souq/internal/model"
	"souq/internal/repository"
)

const maxCommentLength = 2000

type Service struct {
	Reviews  *repository.ReviewRepository
	Products *repository.ProductRepository
	Users    *repository.UserRepository
	Logger   *zap.Logger
	Now      func() time.Time
}

// Add grava ou substitui a avaliação do usuário e recalcula a nota do produto.
func (s *Service) Add(ctx context.Context, userID, productID string, rating int, comment string) (model.Review, error) {
	if rating < 1 || rating > 5 {
		return model.Review{}, apperr.New(apperr.CodeReviewInvalid, apperr.ErrInvalid, "rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if len([]rune(comment)) > maxCommentLength {
		return model.Review{}, apperr.New(apperr.CodeReviewInvalid, apperr.ErrInvalid, "comment is too long")
	}
	if _, err := s.Products.Get(ctx, productID); err != nil {
		return model.Review{}, err
	}

	t := time.Now().UTC()
	if s.Now != nil {
		t = s.Now().UTC()
	}
	rv := model.Review{
		ID:        repository.ReviewID(productID, userID),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: t,
	}
	if s.Users != nil {
		if u, err := s.Users.Get(ctx, userID); err == nil {
			rv.UserName = u.Name
		}
	}
	if err := s.Reviews.Save(ctx, &rv); err != nil {
		return model.Review{}, err
	}
	if err := s.refreshRating(ctx, productID); err != nil {
		return model.Review{}, err
	}
	logging.OrNop(s.Logger).Info("review saved", zap.String("product_id", productID), zap.Int("rating", rating))
	return rv, nil
}

func (s *Service) List(ctx context.Context, productID string) ([]model.Review, error) {
	return s.Reviews.ListByProduct(ctx, productID)
}

func (s *Service) refreshRating(ctx context.Context, productID string) error {
	list, err := s.Reviews.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		return err
	}
	p.Rating, p.ReviewCount = Average(list), len(list)
	return s.Products.Save(ctx, &p)
}

// Average arredonda para uma casa decimal, como aparece nas estrelas da vitrine.
func Average(list []model.Review) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, r := range list {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(list))*10) / 10
}
