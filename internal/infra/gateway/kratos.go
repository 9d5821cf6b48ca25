package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	kratos "github.com/ory/kratos-client-go"
	"github.com/pkg/errors"

	"github.com/totegamma/fantalega/internal/domain"
)

// KratosGateway resolves end-user sessions against Ory Kratos.
type KratosGateway struct {
	client     *kratos.APIClient
	cookieName string
	timeout    time.Duration
}

// NewKratosGateway talks to the Kratos public API at baseURL. cookieName is
// the session cookie Kratos issues; empty means ory_kratos_session.
func NewKratosGateway(baseURL, cookieName string, timeout time.Duration) *KratosGateway {
	if cookieName == "" {
		cookieName = domain.KratosSessionCookie
	}

	configuration := kratos.NewConfiguration()
	configuration.Servers = []kratos.ServerConfiguration{
		{URL: baseURL},
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	configuration.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}

	return &KratosGateway{
		client:     kratos.NewAPIClient(configuration),
		cookieName: cookieName,
		timeout:    timeout,
	}
}

func (g *KratosGateway) sessionCookie(token string) string {
	return fmt.Sprintf("%s=%s", g.cookieName, token)
}

// Lookup returns the identity id of an active session. Unauthorized and
// inactive sessions are reported as absent.
func (g *KratosGateway) Lookup(ctx context.Context, token string) (domain.UserSession, bool, error) {
	if token == "" {
		return domain.UserSession{}, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	session, resp, err := g.client.FrontendAPI.ToSession(ctx).Cookie(g.sessionCookie(token)).Execute()
	if err != nil {
		if resp != nil {
			if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
				return domain.UserSession{}, false, nil
			}
			return domain.UserSession{}, false, fmt.Errorf("kratos returned status %d", resp.StatusCode)
		}
		return domain.UserSession{}, false, errors.Wrap(err, "kratos unavailable")
	}

	if session.Active != nil && !*session.Active {
		return domain.UserSession{}, false, nil
	}
	if session.Identity == nil || session.Identity.Id == "" {
		return domain.UserSession{}, false, nil
	}

	result := domain.UserSession{UserID: session.Identity.Id}
	if session.ExpiresAt != nil {
		result.ExpiresAt = *session.ExpiresAt
	}
	return result, true, nil
}

// Revoke performs the browser logout flow for the session.
func (g *KratosGateway) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	flow, resp, err := g.client.FrontendAPI.CreateBrowserLogoutFlow(ctx).Cookie(g.sessionCookie(token)).Execute()
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			// already logged out
			return nil
		}
		return errors.Wrap(err, "kratos logout flow failed")
	}

	_, err = g.client.FrontendAPI.UpdateLogoutFlow(ctx).Token(flow.LogoutToken).Execute()
	if err != nil {
		return errors.Wrap(err, "kratos logout failed")
	}
	return nil
}
