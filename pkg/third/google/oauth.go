package google

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	strconv2 "github.com/savsgio/gotils/strconv"
)

var userinfoUrl = "https://www.googleapis.com/oauth2/v2/userinfo"

// stateTTL bounds how long a consent round-trip may take.
const stateTTL = 10 * time.Minute

// Profile is the subset of the Google userinfo payload the app keeps.
type Profile struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarUrl string `json:"picture"`
}

type Client struct {
	conf     *oauth2.Config
	stateKey string
}

// NewClient builds the OAuth client for the web login flow.
func NewClient(clientID, clientSecret, redirectUrl, stateKey string) *Client {
	return &Client{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectUrl,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		stateKey: stateKey,
	}
}

// AuthURL returns the consent page URL carrying a signed state token.
func (c *Client) AuthURL() string {
	return c.conf.AuthCodeURL(c.signState(time.Now()))
}

// Exchange trades the callback code for a token and fetches the user
// profile with it.
func (c *Client) Exchange(ctx context.Context, state, code string) (*Profile, string, error) {
	if !c.verifyState(state, time.Now()) {
		return nil, "", fmt.Errorf("oauth state invalid or expired")
	}

	token, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("exchange code: %w", err)
	}

	resp, err := c.conf.Client(ctx, token).Get(userinfoUrl)
	if err != nil {
		return nil, "", fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, "", fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read userinfo: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, "", fmt.Errorf("decode userinfo: %w", err)
	}
	if profile.Email == "" {
		return nil, "", fmt.Errorf("userinfo missing email")
	}

	return &profile, token.AccessToken, nil
}

// signState builds "nonce.issued.sig" with an HMAC over the first two
// parts, so the callback can reject forged or replay-stale states.
func (c *Client) signState(now time.Time) string {
	nonce := make([]byte, 8)
	_, _ = rand.Read(nonce)
	payload := hex.EncodeToString(nonce) + "." + strconv.FormatInt(now.Unix(), 10)
	return payload + "." + hmacEncode(c.stateKey, payload)
}

func (c *Client) verifyState(state string, now time.Time) bool {
	i := strings.LastIndexByte(state, '.')
	if i < 0 {
		return false
	}
	payload, sig := state[:i], state[i+1:]
	if !hmac.Equal(strconv2.S2B(sig), strconv2.S2B(hmacEncode(c.stateKey, payload))) {
		return false
	}

	_, issuedStr, ok := strings.Cut(payload, ".")
	if !ok {
		return false
	}
	issued, err := strconv.ParseInt(issuedStr, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(issued, 0))
	return age >= 0 && age <= stateTTL
}

func hmacEncode(key string, data string) string {
	mac := hmac.New(sha256.New, strconv2.S2B(key))
	mac.Write(strconv2.S2B(data))
	return hex.EncodeToString(mac.Sum(nil))
}
