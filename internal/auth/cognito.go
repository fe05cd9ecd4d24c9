package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fullbor/finance-mcp/internal/apperrors"
	"github.com/fullbor/finance-mcp/internal/common"
	"github.com/fullbor/finance-mcp/internal/config"
)

const (
	// RefreshBuffer is how far ahead of expiry a cached token is replaced.
	RefreshBuffer = 5 * time.Minute

	// defaultTokenTTL applies when Cognito omits ExpiresIn.
	defaultTokenTTL = 3600 * time.Second
)

// InitiateAuthAPI is the subset of the Cognito client used here.
type InitiateAuthAPI interface {
	AdminInitiateAuth(ctx context.Context, params *cip.AdminInitiateAuthInput, optFns ...func(*cip.Options)) (*cip.AdminInitiateAuthOutput, error)
}

// Cognito exchanges username and password for an ID token via
// AdminInitiateAuth and caches it until RefreshBuffer before expiry.
// One instance is shared by the whole process.
type Cognito struct {
	api    InitiateAuthAPI
	cfg    config.AuthConfig
	logger *common.Logger
	now    func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewCognito builds a Cognito token source from the default AWS
// credential chain, pinned to cfg.Region.
func NewCognito(ctx context.Context, cfg config.AuthConfig, logger *common.Logger) (*Cognito, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewCognitoWithClient(cip.NewFromConfig(awsCfg), cfg, logger), nil
}

// NewCognitoWithClient builds a Cognito token source over api.
func NewCognitoWithClient(api InitiateAuthAPI, cfg config.AuthConfig, logger *common.Logger) *Cognito {
	return &Cognito{
		api:    api,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Token returns the cached token or acquires a new one.
func (c *Cognito) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.token != "" && c.expiry.After(now.Add(RefreshBuffer)) {
		return c.token, nil
	}

	c.logger.Info().Str("user_pool", c.cfg.UserPoolID).Msg("acquiring new Cognito token")

	out, err := c.api.AdminInitiateAuth(ctx, &cip.AdminInitiateAuthInput{
		AuthFlow:   types.AuthFlowTypeAdminNoSrpAuth,
		UserPoolId: aws.String(c.cfg.UserPoolID),
		ClientId:   aws.String(c.cfg.ClientID),
		AuthParameters: map[string]string{
			"USERNAME": c.cfg.Username,
			"PASSWORD": c.cfg.Password,
		},
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to authenticate with Cognito")
		if ctx.Err() != nil {
			return "", apperrors.Timeout("cognito", ctx.Err())
		}
		return "", apperrors.Auth("Authentication failed", err)
	}

	result := out.AuthenticationResult
	if result == nil || aws.ToString(result.IdToken) == "" {
		return "", apperrors.Auth("Authentication failed: no token received", nil)
	}

	ttl := defaultTokenTTL
	if result.ExpiresIn > 0 {
		ttl = time.Duration(result.ExpiresIn) * time.Second
	}
	token := aws.ToString(result.IdToken)
	expiry := now.Add(ttl)
	if exp, ok := tokenExpiry(token); ok && exp.Before(expiry) {
		expiry = exp
	}

	c.token = token
	c.expiry = expiry
	c.logger.Info().Str("expires_at", expiry.UTC().Format(time.RFC3339)).Msg("authenticated with Cognito")
	return token, nil
}

// Expiry returns the expiry of the cached token, zero if none.
func (c *Cognito) Expiry() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiry
}

// tokenExpiry reads the exp claim. The signature is not checked.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
