package types

import (
	"net/url"
	"strconv"
)

// FeedFilter selects a feed facet.
type FeedFilter string

const (
	FilterPaid      FeedFilter = "paid"
	FilterBarter    FeedFilter = "barter"
	FilterCredits   FeedFilter = "credits"
	FilterContract  FeedFilter = "contract"
	FilterFreestyle FeedFilter = "freestyle"
	FilterRemote    FeedFilter = "remote"
)

func (f FeedFilter) Valid() bool {
	switch f {
	case FilterPaid, FilterBarter, FilterCredits, FilterContract, FilterFreestyle, FilterRemote:
		return true
	}
	return false
}

// FeedFilters narrows GET /collabs/feed.
type FeedFilters struct {
	Page        int
	Limit       int
	Filter      FeedFilter
	Location    string
	ExcludeUser string
}

// Values encodes the non-zero filters as query parameters.
func (f FeedFilters) Values() url.Values {
	v := url.Values{}
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	setStr(v, "filter", string(f.Filter))
	setStr(v, "location", f.Location)
	setStr(v, "excludeUser", f.ExcludeUser)
	return v
}

// KeyPart is the canonical cache-key fragment for the filters.
func (f FeedFilters) KeyPart() string { return f.Values().Encode() }

// PingFilters narrows the received-pings listing.
type PingFilters struct {
	Page   int
	Limit  int
	Status PingStatus
}

func (f PingFilters) Values() url.Values {
	v := url.Values{}
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	setStr(v, "status", string(f.Status))
	return v
}

func (f PingFilters) KeyPart() string { return f.Values().Encode() }

// MatchFilters narrows the matches listing.
type MatchFilters struct {
	Page   int
	Limit  int
	Status MatchStatus
}

func (f MatchFilters) Values() url.Values {
	v := url.Values{}
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	setStr(v, "status", string(f.Status))
	return v
}

func (f MatchFilters) KeyPart() string { return f.Values().Encode() }

// MessageFilters pages through a match thread.
type MessageFilters struct {
	Page  int
	Limit int
}

func (f MessageFilters) Values() url.Values {
	v := url.Values{}
	setInt(v, "page", f.Page)
	setInt(v, "limit", f.Limit)
	return v
}

func (f MessageFilters) KeyPart() string { return f.Values().Encode() }

func setInt(v url.Values, k string, n int) {
	if n > 0 {
		v.Set(k, strconv.Itoa(n))
	}
}

func setStr(v url.Values, k, s string) {
	if s != "" {
		v.Set(k, s)
	}
}
