package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bazaar/internal/apperr"
	"bazaar/internal/assets"
	"bazaar/internal/docstore"
	"bazaar/internal/domain"
	"bazaar/internal/repos"

	"golang.org/x/sync/errgroup"
)

const (
	folderGovernmentIDs = "verifications/government-ids"
	folderSelfies       = "verifications/selfies"
)

type VerificationService struct {
	Verifications *repos.VerificationRepo
	Users         *repos.UserRepo
	Assets        assets.Store
}

func NewVerificationService(r *repos.Repos, store assets.Store) *VerificationService {
	return &VerificationService{Verifications: r.Verifications, Users: r.Users, Assets: store}
}

type VerificationInput struct {
	FirstName         string `json:"firstName"`
	MiddleName        string `json:"middleName"`
	LastName          string `json:"lastName"`
	Suffix            string `json:"suffix"`
	DateOfBirth       string `json:"dateOfBirth"`
	Sex               string `json:"sex"`
	Nationality       string `json:"nationality"`
	Address           string `json:"address"`
	ContactNumber     string `json:"contactNumber"`
	GovernmentIDImage string `json:"governmentIdImage"`
	SelfieImage       string `json:"selfieImage"`
}

func (in *VerificationInput) trim() {
	for _, f := range []*string{&in.FirstName, &in.MiddleName, &in.LastName, &in.Suffix, &in.DateOfBirth,
		&in.Sex, &in.Nationality, &in.Address, &in.ContactNumber} {
		*f = strings.TrimSpace(*f)
	}
}

func (in *VerificationInput) check() error {
	required := []struct{ name, val string }{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"dateOfBirth", in.DateOfBirth},
		{"sex", in.Sex},
		{"nationality", in.Nationality},
		{"address", in.Address},
		{"contactNumber", in.ContactNumber},
	}
	for _, f := range required {
		if f.val == "" {
			msg := f.name + " is required"
			return apperr.ValidationFields(msg, map[string]string{f.name: msg})
		}
	}
	return nil
}

type VerificationStatus struct {
	Submitted    bool                 `json:"submitted"`
	Status       string               `json:"status"`
	Verification *domain.Verification `json:"verification,omitempty"`
}

func decodeDocument(field, dataURL string) (assets.Payload, error) {
	p, err := assets.Decode(dataURL)
	if err != nil || !p.IsDocument() {
		msg := field + " must be an image or PDF data URL"
		return assets.Payload{}, apperr.ValidationFields(msg, map[string]string{field: msg})
	}
	return p, nil
}

// Submit creates or resubmits the caller's verification. Both files are uploaded
// before anything is written.
func (s *VerificationService) Submit(ctx context.Context, userID string, in VerificationInput) (*domain.Verification, error) {
	in.trim()
	if err := in.check(); err != nil {
		return nil, err
	}
	govID, err := decodeDocument("governmentIdImage", in.GovernmentIDImage)
	if err != nil {
		return nil, err
	}
	selfie, err := decodeDocument("selfieImage", in.SelfieImage)
	if err != nil {
		return nil, err
	}

	existing, err := s.Verifications.ByUserID(ctx, userID)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("load verification: %w", err)
	}
	if existing != nil {
		switch existing.Status {
		case domain.VerificationPending:
			return nil, apperr.Conflict("You already have a pending verification")
		case domain.VerificationApproved:
			return nil, apperr.Conflict("Your account is already verified")
		}
	}

	govAsset, selfieAsset, err := s.uploadPair(ctx, govID, selfie)
	if err != nil {
		return nil, err
	}

	t := now()
	v := &domain.Verification{
		UserID:          userID,
		FirstName:       in.FirstName,
		MiddleName:      in.MiddleName,
		LastName:        in.LastName,
		Suffix:          in.Suffix,
		DateOfBirth:     in.DateOfBirth,
		Sex:             in.Sex,
		Nationality:     in.Nationality,
		Address:         in.Address,
		ContactNumber:   in.ContactNumber,
		GovernmentIDURL: govAsset.URL,
		SelfieURL:       selfieAsset.URL,
		Status:          domain.VerificationPending,
		CreatedAt:       t,
		UpdatedAt:       t,
	}
	if existing != nil {
		v.CreatedAt = existing.CreatedAt
	}
	if err := s.Verifications.Save(ctx, v); err != nil {
		s.discard(govAsset, selfieAsset)
		return nil, fmt.Errorf("save verification: %w", err)
	}
	return v, nil
}

// uploadPair stores both files concurrently. On failure the file that did make it
// is removed best-effort.
func (s *VerificationService) uploadPair(ctx context.Context, govID, selfie assets.Payload) (assets.Asset, assets.Asset, error) {
	var govAsset, selfieAsset assets.Asset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		govAsset, err = s.Assets.Upload(gctx, folderGovernmentIDs, govID)
		return err
	})
	g.Go(func() (err error) {
		selfieAsset, err = s.Assets.Upload(gctx, folderSelfies, selfie)
		return err
	})
	if err := g.Wait(); err != nil {
		s.discard(govAsset, selfieAsset)
		return assets.Asset{}, assets.Asset{}, fmt.Errorf("upload verification files: %w", err)
	}
	return govAsset, selfieAsset, nil
}

func (s *VerificationService) discard(list ...assets.Asset) {
	for _, a := range list {
		if a.URL != "" {
			_ = s.Assets.Delete(context.Background(), a.URL)
		}
	}
}

func (s *VerificationService) Status(ctx context.Context, userID string) (VerificationStatus, error) {
	v, err := s.Verifications.ByUserID(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return VerificationStatus{Status: domain.VerificationNotSubmitted}, nil
	}
	if err != nil {
		return VerificationStatus{}, fmt.Errorf("load verification: %w", err)
	}
	return VerificationStatus{Submitted: true, Status: v.Status, Verification: v}, nil
}

// List returns requests with the given status; "" means pending and "all" disables the filter.
func (s *VerificationService) List(ctx context.Context, status string) ([]domain.Verification, error) {
	switch status {
	case "":
		status = domain.VerificationPending
	case "all":
		status = ""
	case domain.VerificationPending, domain.VerificationApproved, domain.VerificationRejected:
	default:
		return nil, apperr.Validation("Invalid verification status")
	}
	return s.Verifications.List(ctx, status)
}

// Review records an admin decision on a pending request. Approval promotes a
// customer to seller.
func (s *VerificationService) Review(ctx context.Context, reviewerID, userID, status, notes string) (*domain.Verification, error) {
	if status != domain.VerificationApproved && status != domain.VerificationRejected {
		return nil, apperr.Validation("Invalid verification status")
	}
	v, err := s.Verifications.ByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "Verification not found")
	}
	if v.Status != domain.VerificationPending {
		return nil, apperr.Conflict("Verification has already been reviewed")
	}
	t := now()
	v.Status = status
	v.ReviewerNotes = strings.TrimSpace(notes)
	v.ReviewedBy = reviewerID
	v.ReviewedAt = &t
	v.UpdatedAt = t
	if err := s.Verifications.Save(ctx, v); err != nil {
		return nil, fmt.Errorf("save verification: %w", err)
	}

	if status == domain.VerificationApproved {
		if err := s.promote(ctx, userID); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (s *VerificationService) promote(ctx context.Context, userID string) error {
	u, err := s.Users.ByID(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u.Role != domain.RoleCustomer {
		return nil
	}
	u.Role = domain.RoleSeller
	u.UpdatedAt = now()
	if err := s.Users.Save(ctx, u); err != nil {
		return fmt.Errorf("promote user: %w", err)
	}
	return nil
}
