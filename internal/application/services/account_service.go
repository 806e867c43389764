package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/narrativekit/storydesk-go/internal/domain/account"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/email"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/install"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/security"
)

// ClaimNames carries the configurable identity token claim names the
// account list is read from.
type ClaimNames struct {
	AccountList string
	AccountID   string
	Username    string
}

// AccountService resolves which upstream accounts an operator may act
// for and which one is active. The resolved selection survives
// restarts through the console store.
type AccountService struct {
	store    account.Store
	secrets  *install.Config
	notifier *email.Notifier
	logger   *logging.ChanneledLogger
	claims   ClaimNames
}

// NewAccountService creates a new account resolution service
func NewAccountService(store account.Store, secrets *install.Config, notifier *email.Notifier, claims ClaimNames, logger *logging.ChanneledLogger) *AccountService {
	return &AccountService{
		store:    store,
		secrets:  secrets,
		notifier: notifier,
		logger:   logger,
		claims:   claims,
	}
}

// Resolve verifies an identity token and persists the account scope it
// carries. Resolving the same token twice converges on the same state;
// the persisted selection index is honored when it still fits the list.
func (s *AccountService) Resolve(identityToken string) (*account.Resolution, error) {
	if s.secrets.IdentitySecret == "" {
		return nil, fmt.Errorf("identity verification is not configured")
	}

	claims, err := security.IdentityClaimsFromToken(identityToken, s.secrets.IdentitySecret,
		s.claims.AccountList, s.claims.AccountID, s.claims.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid identity token: %w", err)
	}

	available, source := account.AvailableAccounts(claims)
	if len(available) == 0 {
		return nil, fmt.Errorf("identity token carries no usable identity")
	}

	storedIndex, err := s.store.Get(account.KeySelectedIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to read selected index: %w", err)
	}
	index := account.ClampIndex(storedIndex, len(available))

	resolution := &account.Resolution{
		AvailableIDs: available,
		ActiveIndex:  index,
		ActiveID:     available[index],
		Username:     claims.Username,
		Source:       source,
	}

	if err := s.persist(resolution); err != nil {
		return nil, err
	}

	if resolution.Degraded() {
		s.logger.Account().Warn("Account resolution degraded to token subject",
			"subject", claims.Subject,
			"username", claims.Username,
		)
		s.notifier.Alert("degraded account resolution",
			fmt.Sprintf("The identity token for %q carried no account claims; the console fell back to the token subject.", claims.Username))
	}

	s.logger.Account().Info("Account scope resolved",
		"available", len(available),
		"activeIndex", index,
		"source", string(source),
	)

	return resolution, nil
}

// Current returns the persisted resolution, or ErrNoResolution when no
// identity has been presented yet.
func (s *AccountService) Current() (*account.Resolution, error) {
	encoded, err := s.store.Get(account.KeyAvailableIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to read available ids: %w", err)
	}
	if encoded == "" {
		return nil, account.ErrNoResolution
	}

	available := account.ParseAccountList(encoded)
	if len(available) == 0 {
		return nil, account.ErrNoResolution
	}

	storedIndex, err := s.store.Get(account.KeySelectedIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to read selected index: %w", err)
	}
	index := account.ClampIndex(storedIndex, len(available))

	username, err := s.store.Get(account.KeyUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to read username: %w", err)
	}
	source, err := s.store.Get(account.KeySource)
	if err != nil {
		return nil, fmt.Errorf("failed to read resolution source: %w", err)
	}

	return &account.Resolution{
		AvailableIDs: available,
		ActiveIndex:  index,
		ActiveID:     available[index],
		Username:     username,
		Source:       account.Source(source),
	}, nil
}

// Switch selects the active account by index into the available list.
// An out-of-range index leaves the persisted state untouched.
func (s *AccountService) Switch(index int) (*account.Resolution, error) {
	current, err := s.Current()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(current.AvailableIDs) {
		return nil, account.ErrInvalidAccountIndex
	}

	current.ActiveIndex = index
	current.ActiveID = current.AvailableIDs[index]
	if err := s.persist(current); err != nil {
		return nil, err
	}

	s.logger.Account().Info("Active account switched",
		"activeIndex", index,
		"activeId", current.ActiveID,
	)

	return current, nil
}

// ActiveAccountID reports the persisted active account id. An empty id
// means resolution has not happened yet.
func (s *AccountService) ActiveAccountID() (string, error) {
	return s.store.Get(account.KeyActiveID)
}

func (s *AccountService) persist(r *account.Resolution) error {
	encoded, err := json.Marshal(r.AvailableIDs)
	if err != nil {
		return fmt.Errorf("failed to encode available ids: %w", err)
	}
	if err := s.store.Set(account.KeyAvailableIDs, string(encoded)); err != nil {
		return fmt.Errorf("failed to persist available ids: %w", err)
	}
	if err := s.store.Set(account.KeySelectedIndex, strconv.Itoa(r.ActiveIndex)); err != nil {
		return fmt.Errorf("failed to persist selected index: %w", err)
	}
	if err := s.store.Set(account.KeyActiveID, r.ActiveID); err != nil {
		return fmt.Errorf("failed to persist active id: %w", err)
	}
	if err := s.store.Set(account.KeyUsername, r.Username); err != nil {
		return fmt.Errorf("failed to persist username: %w", err)
	}
	if err := s.store.Set(account.KeySource, string(r.Source)); err != nil {
		return fmt.Errorf("failed to persist resolution source: %w", err)
	}
	return nil
}
