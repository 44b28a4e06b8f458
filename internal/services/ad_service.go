package services

import (
	"context"
	"fmt"
	"strings"

	"obmenBack/internal/models"
)

// SearchPageSize is the fixed page size of the ad search.
const SearchPageSize = 20

// AdRepo is the persistence surface the catalog needs; satisfied by
// repositories.AdRepository.
type AdRepo interface {
	CreateAd(ctx context.Context, ad models.Ad) (models.Ad, error)
	GetAdByID(ctx context.Context, id int) (models.Ad, error)
	UpdateAd(ctx context.Context, ad models.Ad) (models.Ad, error)
	DeleteAd(ctx context.Context, id int) error
	GetAdsExcludingUser(ctx context.Context, userID int) ([]models.Ad, error)
	GetAdsByUserID(ctx context.Context, userID int) ([]models.Ad, error)
	SearchAds(ctx context.Context, req models.AdSearchRequest, limit, offset int) ([]models.Ad, error)
}

type AdService struct {
	AdRepo AdRepo
}

func validateAdFields(title, description, category, condition string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", models.ErrValidation)
	}
	if !models.ValidAdCategory(category) {
		return fmt.Errorf("%w: unknown category %q", models.ErrValidation, category)
	}
	if !models.ValidAdCondition(condition) {
		return fmt.Errorf("%w: unknown condition %q", models.ErrValidation, condition)
	}
	return nil
}

func (s *AdService) CreateAd(ctx context.Context, actorID int, ad models.Ad) (models.Ad, error) {
	if actorID == 0 {
		return models.Ad{}, models.ErrUnauthenticated
	}
	if err := validateAdFields(ad.Title, ad.Description, ad.Category, ad.Condition); err != nil {
		return models.Ad{}, err
	}
	ad.UserID = actorID
	return s.AdRepo.CreateAd(ctx, ad)
}

func (s *AdService) GetAdByID(ctx context.Context, id int) (models.Ad, error) {
	return s.AdRepo.GetAdByID(ctx, id)
}

// GetOtherAds lists everyone else's ads. An anonymous viewer (actorID 0)
// sees the whole set.
func (s *AdService) GetOtherAds(ctx context.Context, actorID int) ([]models.Ad, error) {
	return s.AdRepo.GetAdsExcludingUser(ctx, actorID)
}

// GetMyAds lists the actor's own ads. Anonymous viewers get an empty
// result, never an error.
func (s *AdService) GetMyAds(ctx context.Context, actorID int) ([]models.Ad, error) {
	if actorID == 0 {
		return []models.Ad{}, nil
	}
	ads, err := s.AdRepo.GetAdsByUserID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if ads == nil {
		ads = []models.Ad{}
	}
	return ads, nil
}

func (s *AdService) UpdateAd(ctx context.Context, actorID, adID int, upd models.AdUpdate) (models.Ad, error) {
	if actorID == 0 {
		return models.Ad{}, models.ErrUnauthenticated
	}
	ad, err := s.AdRepo.GetAdByID(ctx, adID)
	if err != nil {
		return models.Ad{}, err
	}
	if ad.UserID != actorID {
		return models.Ad{}, models.ErrPermissionDenied
	}

	if upd.Title != "" {
		ad.Title = upd.Title
	}
	if upd.Description != "" {
		ad.Description = upd.Description
	}
	if upd.Category != "" {
		ad.Category = upd.Category
	}
	if upd.Condition != "" {
		ad.Condition = upd.Condition
	}
	if upd.ImageURL != nil {
		if *upd.ImageURL == "" {
			ad.ImageURL = nil
		} else {
			ad.ImageURL = upd.ImageURL
		}
	}

	if err := validateAdFields(ad.Title, ad.Description, ad.Category, ad.Condition); err != nil {
		return models.Ad{}, err
	}
	return s.AdRepo.UpdateAd(ctx, ad)
}

func (s *AdService) DeleteAd(ctx context.Context, actorID, adID int) error {
	if actorID == 0 {
		return models.ErrUnauthenticated
	}
	ad, err := s.AdRepo.GetAdByID(ctx, adID)
	if err != nil {
		return err
	}
	if ad.UserID != actorID {
		return models.ErrPermissionDenied
	}
	return s.AdRepo.DeleteAd(ctx, adID)
}

// SetAdImage attaches an uploaded image URL to the actor's ad.
func (s *AdService) SetAdImage(ctx context.Context, actorID, adID int, imageURL string) (models.Ad, error) {
	return s.UpdateAd(ctx, actorID, adID, models.AdUpdate{ImageURL: &imageURL})
}

// SearchAds pages through the filtered ad set 20 at a time. Pages are
// 1-indexed; one extra row is fetched to compute has_more.
func (s *AdService) SearchAds(ctx context.Context, req models.AdSearchRequest) (models.AdSearchResponse, error) {
	if req.Category != "" && !models.ValidAdCategory(req.Category) {
		return models.AdSearchResponse{}, fmt.Errorf("%w: unknown category %q", models.ErrValidation, req.Category)
	}
	if req.Condition != "" && !models.ValidAdCondition(req.Condition) {
		return models.AdSearchResponse{}, fmt.Errorf("%w: unknown condition %q", models.ErrValidation, req.Condition)
	}
	if req.Page < 1 {
		req.Page = 1
	}
	offset := (req.Page - 1) * SearchPageSize

	ads, err := s.AdRepo.SearchAds(ctx, req, SearchPageSize+1, offset)
	if err != nil {
		return models.AdSearchResponse{}, err
	}

	hasMore := len(ads) > SearchPageSize
	if hasMore {
		ads = ads[:SearchPageSize]
	}
	if ads == nil {
		ads = []models.Ad{}
	}
	return models.AdSearchResponse{
		Ads:     ads,
		Page:    req.Page,
		HasMore: hasMore,
	}, nil
}

func (s *AdService) Options() models.AdOptions {
	return models.AdOptions{
		Categories: models.AdCategories(),
		Conditions: models.AdConditions(),
	}
}
