package services

import (
	"context"
	"fmt"
	"strings"

	"market-pos/internal/status"
	"market-pos/internal/store"
	"market-pos/logger"
	"market-pos/models"
	"market-pos/utils"

	"go.uber.org/zap"
)

// ShareTokenBytes yields a 32 character hex token.
const ShareTokenBytes = 16

type VendorInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	ContactName string `json:"contact_name" validate:"max=120"`
	Phone       string `json:"phone" validate:"max=40"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type VendorService struct {
	vendors       store.VendorRepository
	publicBaseURL string
}

func NewVendorService(vendors store.VendorRepository, publicBaseURL string) *VendorService {
	return &VendorService{vendors: vendors, publicBaseURL: publicBaseURL}
}

func (s *VendorService) List(ctx context.Context) ([]models.Vendor, error) {
	return s.vendors.List(ctx)
}

func (s *VendorService) Get(ctx context.Context, id string) (*models.Vendor, error) {
	return s.vendors.Get(ctx, id)
}

func (s *VendorService) GetByShareToken(ctx context.Context, token string) (*models.Vendor, error) {
	if token == "" {
		return nil, status.ErrNotFound
	}
	return s.vendors.GetByShareToken(ctx, token)
}

func (s *VendorService) Create(ctx context.Context, in VendorInput) (*models.Vendor, error) {
	v := &models.Vendor{}
	if err := applyVendorInput(v, in); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(ShareTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate share token: %w", err)
	}
	v.ShareToken = token

	if err := s.vendors.Create(ctx, v); err != nil {
		logger.FromContext(ctx).Error("Failed to create vendor", zap.String("name", v.Name), zap.Error(err))
		return nil, err
	}
	return v, nil
}

func (s *VendorService) Update(ctx context.Context, id string, in VendorInput) (*models.Vendor, error) {
	v, err := s.vendors.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyVendorInput(v, in); err != nil {
		return nil, err
	}
	if err := s.vendors.Update(ctx, v); err != nil {
		logger.FromContext(ctx).Error("Failed to update vendor", zap.String("vendor_id", id), zap.Error(err))
		return nil, err
	}
	return v, nil
}

// Delete removes the vendor together with its transactions and requests.
func (s *VendorService) Delete(ctx context.Context, id string) error {
	if err := s.vendors.Delete(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Vendor deleted", zap.String("vendor_id", id))
	return nil
}

// RotateToken issues a new share token, invalidating the previous link.
func (s *VendorService) RotateToken(ctx context.Context, id string) (*models.Vendor, error) {
	v, err := s.vendors.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(ShareTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate share token: %w", err)
	}
	v.ShareToken = token

	if err := s.vendors.Update(ctx, v); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Share token rotated", zap.String("vendor_id", id))
	return v, nil
}

func (s *VendorService) ShareURL(v models.Vendor) string {
	return v.ShareURL(s.publicBaseURL)
}

func applyVendorInput(v *models.Vendor, in VendorInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return status.ErrBlankVendorName
	}
	v.Name = name
	v.Description = strings.TrimSpace(in.Description)
	v.ContactName = strings.TrimSpace(in.ContactName)
	v.Phone = strings.TrimSpace(in.Phone)
	v.Email = strings.TrimSpace(in.Email)
	return nil
}
