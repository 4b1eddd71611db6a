package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/vendorhub-backend/internal/users"
	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
)

// SelectAccountTypeInput captures the one-time account type choice for users
// created without one.
type SelectAccountTypeInput struct {
	UserID        uuid.UUID
	AccountType   string
	AccessTokenID string
}

// AccountTypeService is the interface exposed to the controller.
type AccountTypeService interface {
	Select(ctx context.Context, input SelectAccountTypeInput) (*LoginResponse, error)
}

type tokenIssuer interface {
	IssueTokens(ctx context.Context, user *models.User) (*LoginResponse, error)
	Logout(ctx context.Context, accessID string) error
}

// AccountTypeServiceParams bundles dependencies for the selection flow.
type AccountTypeServiceParams struct {
	DB     txRunner
	Tokens tokenIssuer
}

type accountTypeService struct {
	db     txRunner
	tokens tokenIssuer
}

// NewAccountTypeService constructs the service.
func NewAccountTypeService(params AccountTypeServiceParams) (AccountTypeService, error) {
	if params.DB == nil {
		return nil, errors.New("database client required")
	}
	if params.Tokens == nil {
		return nil, errors.New("token issuer required")
	}
	return &accountTypeService{db: params.DB, tokens: params.Tokens}, nil
}

// Select stores the account type, creates the vendor profile when needed and
// swaps the caller's session for one whose token carries the new role.
func (s *accountTypeService) Select(ctx context.Context, input SelectAccountTypeInput) (*LoginResponse, error) {
	accountType, err := parseSelfServiceType(input.AccountType)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		found, err := userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}
		if found.HasAccountType() {
			return pkgerrors.New(pkgerrors.CodeConflict, "account type already selected").
				WithDetails(map[string]string{"accountType": found.AccountType.String()})
		}

		if err := userRepo.SetAccountType(ctx, found.ID, accountType); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set account type")
		}
		found.AccountType = &accountType

		if err := createVendorProfile(tx, found, accountType); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.AccessTokenID != "" {
		if err := s.tokens.Logout(ctx, input.AccessTokenID); err != nil {
			return nil, err
		}
	}
	return s.tokens.IssueTokens(ctx, user)
}
