// Package oauth signs users in through external OAuth 2.0 providers.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"travelplanner/internal/config"
	"travelplanner/internal/domain/models"
	"travelplanner/internal/utils"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
	googleoauth "golang.org/x/oauth2/google"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	ProviderGitHub = "github"
	ProviderGoogle = "google"

	httpTimeout = 15 * time.Second
)

// ErrNoEmail is returned when the provider does not disclose a usable email.
var ErrNoEmail = errors.New("oauth: provider returned no verified email")

// Provider performs the authorization-code flow for one identity provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	// Exchange trades the callback code for the user's profile.
	Exchange(ctx context.Context, code string) (models.OAuthProfile, error)
}

// Registry holds the providers that have client credentials configured.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: map[string]Provider{}}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// RegistryFromEnv registers GitHub and Google when their credentials are set.
func RegistryFromEnv(env config.Env) *Registry {
	base := strings.TrimRight(env.OAuthRedirectBase, "/")
	var providers []Provider
	if env.GitHubClientID != "" && env.GitHubClientSecret != "" {
		providers = append(providers, NewGitHubProvider(&oauth2.Config{
			ClientID:     env.GitHubClientID,
			ClientSecret: env.GitHubClientSecret,
			Endpoint:     githuboauth.Endpoint,
			RedirectURL:  base + "/api/auth/oauth/github/callback",
			Scopes:       []string{"read:user", "user:email"},
		}, nil))
	}
	if env.GoogleClientID != "" && env.GoogleClientSecret != "" {
		providers = append(providers, NewGoogleProvider(&oauth2.Config{
			ClientID:     env.GoogleClientID,
			ClientSecret: env.GoogleClientSecret,
			Endpoint:     googleoauth.Endpoint,
			RedirectURL:  base + "/api/auth/oauth/google/callback",
			Scopes:       []string{oauth2v2.UserinfoEmailScope, oauth2v2.UserinfoProfileScope},
		}, ""))
	}
	return NewRegistry(providers...)
}

func (r *Registry) Get(name string) (Provider, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Names lists configured providers, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.providers))
	for n := range r.providers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func exchangeClient(ctx context.Context, cfg *oauth2.Config, code string) (*http.Client, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: httpTimeout})
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth: exchange code: %w", err)
	}
	client := cfg.Client(ctx, tok)
	client.Timeout = httpTimeout
	return client, nil
}

// GitHubProvider signs in with GitHub and reads the profile through go-github.
type GitHubProvider struct {
	cfg *oauth2.Config
	// apiBase overrides https://api.github.com/ (tests, GitHub Enterprise).
	apiBase *url.URL
}

func NewGitHubProvider(cfg *oauth2.Config, apiBase *url.URL) *GitHubProvider {
	return &GitHubProvider{cfg: cfg, apiBase: apiBase}
}

func (p *GitHubProvider) Name() string { return ProviderGitHub }

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (models.OAuthProfile, error) {
	httpClient, err := exchangeClient(ctx, p.cfg, code)
	if err != nil {
		return models.OAuthProfile{}, err
	}
	client := gh.NewClient(httpClient)
	if p.apiBase != nil {
		client.BaseURL = p.apiBase
	}

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return models.OAuthProfile{}, fmt.Errorf("oauth: github user: %w", err)
	}

	email := user.GetEmail()
	if email == "" {
		emails, _, err := client.Users.ListEmails(ctx, &gh.ListOptions{PerPage: 100})
		if err != nil {
			return models.OAuthProfile{}, fmt.Errorf("oauth: github emails: %w", err)
		}
		email = primaryGitHubEmail(emails)
	}
	if email == "" {
		return models.OAuthProfile{}, ErrNoEmail
	}

	return models.OAuthProfile{
		Provider:          ProviderGitHub,
		ProviderAccountID: strconv.FormatInt(user.GetID(), 10),
		Email:             email,
		Name:              utils.FirstNonEmpty(user.GetName(), user.GetLogin()),
		Image:             user.GetAvatarURL(),
	}, nil
}

func primaryGitHubEmail(emails []*gh.UserEmail) string {
	fallback := ""
	for _, e := range emails {
		if !e.GetVerified() {
			continue
		}
		if e.GetPrimary() {
			return e.GetEmail()
		}
		if fallback == "" {
			fallback = e.GetEmail()
		}
	}
	return fallback
}

// GoogleProvider signs in with Google and reads the profile from the
// OAuth2 v2 userinfo API.
type GoogleProvider struct {
	cfg *oauth2.Config
	// endpoint overrides the Google API root when set.
	endpoint string
}

func NewGoogleProvider(cfg *oauth2.Config, endpoint string) *GoogleProvider {
	return &GoogleProvider{cfg: cfg, endpoint: endpoint}
}

func (p *GoogleProvider) Name() string { return ProviderGoogle }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (models.OAuthProfile, error) {
	httpClient, err := exchangeClient(ctx, p.cfg, code)
	if err != nil {
		return models.OAuthProfile{}, err
	}
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}
	svc, err := oauth2v2.NewService(ctx, opts...)
	if err != nil {
		return models.OAuthProfile{}, fmt.Errorf("oauth: google service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return models.OAuthProfile{}, fmt.Errorf("oauth: google userinfo: %w", err)
	}
	if info.Email == "" || (info.VerifiedEmail != nil && !*info.VerifiedEmail) {
		return models.OAuthProfile{}, ErrNoEmail
	}
	return models.OAuthProfile{
		Provider:          ProviderGoogle,
		ProviderAccountID: info.Id,
		Email:             info.Email,
		Name:              utils.FirstNonEmpty(info.Name, info.Email),
		Image:             info.Picture,
	}, nil
}
