// Package auth stores session cookies in the OS keyring, one entry per
// account, with the account names mirrored in a local JSON file so they
// can be listed without probing the keyring.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/linkscout/linkscout/internal/core"
)

const (
	serviceName     = "linkscout"
	minCookieLength = 10
)

// Keyring is the subset of the OS keyring the store uses; tests substitute
// an in-memory fake.
type Keyring interface {
	Set(service, user, password string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

type systemKeyring struct{}

func (systemKeyring) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}

func (systemKeyring) Get(service, user string) (string, error) {
	return keyring.Get(service, user)
}

func (systemKeyring) Delete(service, user string) error {
	return keyring.Delete(service, user)
}

// CookieStore manages stored session cookies.
type CookieStore struct {
	AccountsFile string
	Ring         Keyring
}

// NewCookieStore returns a store backed by the OS keyring.
func NewCookieStore(accountsFile string) *CookieStore {
	return &CookieStore{AccountsFile: accountsFile, Ring: systemKeyring{}}
}

// ValidateCookieFormat performs a basic sanity check on a cookie value.
func ValidateCookieFormat(cookie string) bool {
	return len(strings.TrimSpace(cookie)) >= minCookieLength
}

// Store saves the token bundle for an account and records the account name.
func (s *CookieStore) Store(account string, bundle core.TokenBundle) error {
	account = normalizeAccount(account)

	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	if err := s.ring().Set(serviceName, account, string(payload)); err != nil {
		return fmt.Errorf("store cookies: %w", err)
	}

	return s.addAccount(account)
}

// Get returns the stored token bundle for an account, or nil when none is
// stored. Plain-string entries from older releases are treated as a bare
// li_at cookie.
func (s *CookieStore) Get(account string) (*core.TokenBundle, error) {
	account = normalizeAccount(account)

	stored, err := s.ring().Get(serviceName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cookies: %w", err)
	}

	bundle := &core.TokenBundle{}
	if err := json.Unmarshal([]byte(stored), bundle); err == nil && bundle.LiAt != "" {
		return bundle, nil
	}

	// Legacy format: the keyring entry is the raw li_at value.
	return &core.TokenBundle{LiAt: stored}, nil
}

// Delete removes an account's cookies and its accounts-list entry.
func (s *CookieStore) Delete(account string) error {
	account = normalizeAccount(account)

	if err := s.ring().Delete(serviceName, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete cookies: %w", err)
	}
	return s.removeAccount(account)
}

// ListAccounts returns the stored account names.
func (s *CookieStore) ListAccounts() ([]string, error) {
	return s.loadAccounts()
}

type accountsFile struct {
	Accounts []string `json:"accounts"`
}

func (s *CookieStore) loadAccounts() ([]string, error) {
	data, err := os.ReadFile(s.AccountsFile) // #nosec G304 -- accounts path comes from local config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	var parsed accountsFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse accounts file: %w", err)
	}
	return parsed.Accounts, nil
}

func (s *CookieStore) saveAccounts(accounts []string) error {
	data, err := json.MarshalIndent(accountsFile{Accounts: accounts}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode accounts file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.AccountsFile), 0755); err != nil {
		return fmt.Errorf("create accounts directory: %w", err)
	}
	if err := os.WriteFile(s.AccountsFile, data, 0600); err != nil {
		return fmt.Errorf("write accounts file: %w", err)
	}
	return nil
}

func (s *CookieStore) addAccount(account string) error {
	accounts, err := s.loadAccounts()
	if err != nil {
		return err
	}
	for _, existing := range accounts {
		if existing == account {
			return nil
		}
	}
	return s.saveAccounts(append(accounts, account))
}

func (s *CookieStore) removeAccount(account string) error {
	accounts, err := s.loadAccounts()
	if err != nil {
		return err
	}

	filtered := accounts[:0]
	for _, existing := range accounts {
		if existing != account {
			filtered = append(filtered, existing)
		}
	}
	if len(filtered) == len(accounts) {
		return nil
	}
	return s.saveAccounts(filtered)
}

func (s *CookieStore) ring() Keyring {
	if s != nil && s.Ring != nil {
		return s.Ring
	}
	return systemKeyring{}
}

func normalizeAccount(account string) string {
	account = strings.TrimSpace(account)
	if account == "" {
		return "default"
	}
	return account
}
