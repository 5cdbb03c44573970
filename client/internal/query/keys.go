package query

import (
	qc "github.com/originals/collab-client/client/internal/querycache"
	"github.com/originals/collab-client/client/internal/types"
)

// Key roots.
const (
	rootFeed          = "collabFeed"
	rootCollab        = "collab"
	rootReceivedPings = "receivedPings"
	rootMatches       = "matches"
	rootMessages      = "messages"
)

// FeedPrefix covers every filter variant of the feed.
func FeedPrefix() qc.Key { return qc.K(rootFeed) }

func FeedKey(f types.FeedFilters) qc.Key { return qc.K(rootFeed, f.KeyPart()) }

func CollabKey(id string) qc.Key { return qc.K(rootCollab, id) }

func ReceivedPingsPrefix(wallet string) qc.Key { return qc.K(rootReceivedPings, wallet) }

func ReceivedPingsKey(wallet string, f types.PingFilters) qc.Key {
	return qc.K(rootReceivedPings, wallet, f.KeyPart())
}

func MatchesPrefix(wallet string) qc.Key { return qc.K(rootMatches, wallet) }

func MatchesKey(wallet string, f types.MatchFilters) qc.Key {
	return qc.K(rootMatches, wallet, f.KeyPart())
}

func MessagesPrefix(matchID string) qc.Key { return qc.K(rootMessages, matchID) }

func MessagesKey(matchID string, f types.MessageFilters) qc.Key {
	return qc.K(rootMessages, matchID, f.KeyPart())
}
