// Package coins reads creator-coin and profile data from the coin API and
// caches it per address.
package coins

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	cerr "github.com/originals/collab-client/client/internal/errors"
	"github.com/originals/collab-client/client/internal/types"
)

// BaseChainID is the chain coins are looked up on.
const BaseChainID = 8453

var (
	ErrNoProfile = errors.New("no profile found")
	ErrNoCoin    = errors.New("no coin found")
)

// Profile is the public creator profile of a wallet.
type Profile struct {
	Address        string `json:"address"`
	Name           string `json:"name,omitempty"`
	Handle         string `json:"handle,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Avatar         string `json:"avatar,omitempty"`
	Website        string `json:"website,omitempty"`
	Twitter        string `json:"twitter,omitempty"`
	Verified       bool   `json:"verified,omitempty"`
	FollowerCount  int    `json:"followerCount,omitempty"`
	FollowingCount int    `json:"followingCount,omitempty"`
	CoinCount      int    `json:"coinCount,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// Provider is the read-only coin data collaborator.
type Provider interface {
	Profile(ctx context.Context, identifier string) (*Profile, error)
	Coin(ctx context.Context, address string) (*types.CoinData, error)
}

// HTTPProvider talks to the coin REST API.
type HTTPProvider struct {
	rc  *resty.Client
	now func() time.Time
}

// NewHTTPProvider returns a provider rooted at baseURL. hc may be nil.
func NewHTTPProvider(baseURL string, hc *http.Client) *HTTPProvider {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	rc := resty.NewWithClient(hc).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return &HTTPProvider{rc: rc, now: time.Now}
}

func (p *HTTPProvider) get(ctx context.Context, path string, query map[string]string) (gjson.Result, error) {
	resp, err := p.rc.R().SetContext(ctx).SetQueryParams(query).Get(path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return gjson.Result{}, ctxErr
		}
		return gjson.Result{}, cerr.NewNetworkError("GET "+path, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return gjson.Result{}, nil
	}
	if !resp.IsSuccess() {
		return gjson.Result{}, cerr.NewHTTPError(resp.StatusCode(), "", fmt.Sprintf("coin api status %d", resp.StatusCode()))
	}
	if !gjson.ValidBytes(resp.Body()) {
		return gjson.Result{}, &cerr.APIError{Code: cerr.CodeUnknown, Message: "malformed coin api response", Status: resp.StatusCode()}
	}
	return gjson.ParseBytes(resp.Body()), nil
}

// Profile looks up a profile by wallet address or handle.
func (p *HTTPProvider) Profile(ctx context.Context, identifier string) (*Profile, error) {
	doc, err := p.get(ctx, "/profile", map[string]string{"identifier": identifier})
	if err != nil {
		return nil, err
	}
	return parseProfile(identifier, doc.Get("profile"))
}

// Coin looks up a coin on the base chain.
func (p *HTTPProvider) Coin(ctx context.Context, address string) (*types.CoinData, error) {
	doc, err := p.get(ctx, "/coin", map[string]string{"address": address, "chain": strconv.Itoa(BaseChainID)})
	if err != nil {
		return nil, err
	}
	return parseCoin(doc.Get("zora20Token"), p.now)
}

func parseProfile(address string, r gjson.Result) (*Profile, error) {
	if !r.Exists() || !r.IsObject() {
		return nil, ErrNoProfile
	}
	p := &Profile{
		Address:        address,
		Name:           firstString(r, "name", "displayName", "username", "handle"),
		Handle:         firstString(r, "handle", "username"),
		Bio:            r.Get("bio").String(),
		Avatar:         image(r.Get("avatar")),
		Website:        r.Get("website").String(),
		Twitter:        firstString(r, "twitter", "socialAccounts.twitter.username"),
		Verified:       r.Get("verified").Bool(),
		FollowerCount:  int(r.Get("followerCount").Int()),
		FollowingCount: int(r.Get("followingCount").Int()),
		CoinCount:      int(r.Get("coinCount").Int()),
		CreatedAt:      r.Get("createdAt").String(),
	}
	return p, nil
}

func parseCoin(r gjson.Result, now func() time.Time) (*types.CoinData, error) {
	if !r.Exists() || !r.IsObject() {
		return nil, ErrNoCoin
	}
	return &types.CoinData{
		Name:           orDefault(r.Get("name").String(), "Untitled Coin"),
		Symbol:         orDefault(r.Get("symbol").String(), "COIN"),
		Description:    orDefault(r.Get("description").String(), "No description available"),
		TotalSupply:    orDefault(r.Get("totalSupply").String(), "0"),
		MarketCap:      orDefault(r.Get("marketCap").String(), "0"),
		Volume24h:      orDefault(r.Get("volume24h").String(), "0"),
		CreatorAddress: r.Get("creatorAddress").String(),
		CreatedAt:      orDefault(r.Get("createdAt").String(), now().UTC().Format(time.RFC3339)),
		UniqueHolders:  int(r.Get("uniqueHolders").Int()),
		PreviewImage:   image(r.Get("mediaContent.previewImage")),
	}, nil
}

// image accepts either a URL string or an object of sized URLs.
func image(r gjson.Result) string {
	if r.IsObject() {
		return firstString(r, "medium", "small", "large")
	}
	return r.String()
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := r.Get(p).String(); s != "" {
			return s
		}
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
