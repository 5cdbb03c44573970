package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/originals/collab-client/client"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the resolved wallet and its onboarding state",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			wallet, ok := c.Identity().Address()
			if !ok {
				return client.ErrNoIdentity
			}
			snap := c.Onboarding().Snapshot()
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"wallet":     wallet,
				"onboarding": snap.State.String(),
			})
		},
	}
}

func newOnboardingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Inspect or complete onboarding",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Check whether the wallet has onboarded",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			snap := c.Onboarding().Snapshot()
			if snap.Wallet == "" {
				return client.ErrNoIdentity
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"wallet":  snap.Wallet,
				"state":   snap.State.String(),
				"profile": snap.Profile,
				"error":   snap.Err,
			})
		},
	})

	var userType, status, name, tagline, orgName, orgType string
	var domains, skills []string
	complete := &cobra.Command{
		Use:   "complete",
		Short: "Submit the onboarding profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := c.Onboarding().Complete(ctx, client.OnboardingRequest{
				UserType:        userType,
				CreativeDomains: domains,
				Status:          status,
				ProfileData: client.OnboardingProfile{
					Name:    name,
					Tagline: tagline,
					OrgName: orgName,
					OrgType: orgType,
					Skills:  skills,
				},
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	complete.Flags().StringVar(&userType, "user-type", "", "indie, org or brand (required)")
	complete.Flags().StringVar(&status, "status", "", "Availability status")
	complete.Flags().StringVar(&name, "name", "", "Display name (required)")
	complete.Flags().StringVar(&tagline, "tagline", "", "One-line tagline")
	complete.Flags().StringVar(&orgName, "org-name", "", "Organisation name")
	complete.Flags().StringVar(&orgType, "org-type", "", "Organisation type")
	complete.Flags().StringSliceVar(&domains, "domain", nil, "Creative domain (repeatable)")
	complete.Flags().StringSliceVar(&skills, "skill", nil, "Skill (repeatable)")
	_ = complete.MarkFlagRequired("user-type")
	_ = complete.MarkFlagRequired("name")
	cmd.AddCommand(complete)
	return cmd
}

func newFeedCmd() *cobra.Command {
	var page, limit int
	var filter, location, exclude string
	var withCoins bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List open collaborations",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := client.FeedFilters{Page: page, Limit: limit, Filter: client.FeedFilter(filter), Location: location, ExcludeUser: exclude}
			if filter != "" && !f.Filter.Valid() {
				return fmt.Errorf("invalid filter %q", filter)
			}
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()

			start := time.Now()
			read := c.Queries().Feed
			if withCoins {
				read = c.Queries().FeedWithCoins
			}
			res, err := read(ctx, f)
			if err != nil {
				log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("feed failed")
				return err
			}
			if !res.Ready {
				return client.ErrNoIdentity
			}
			log.Debug().Int("collabs", len(res.Data.Collabs)).Dur("elapsed", time.Since(start)).Msg("feed completed")
			return printJSON(cmd.OutOrStdout(), res.Data)
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&filter, "filter", "", "paid, barter, credits, contract, freestyle or remote")
	cmd.Flags().StringVar(&location, "location", "", "Location filter")
	cmd.Flags().StringVar(&exclude, "exclude-user", "", "Hide postings by this wallet")
	cmd.Flags().BoolVar(&withCoins, "coins", false, "Attach creator-coin data")
	return cmd
}

// parseCollaborators reads "Role:credits" pairs.
func parseCollaborators(raw []string) ([]client.CollaboratorRole, error) {
	out := make([]client.CollaboratorRole, 0, len(raw))
	for _, r := range raw {
		role, credits, found := strings.Cut(r, ":")
		if !found || strings.TrimSpace(role) == "" {
			return nil, fmt.Errorf("collaborator %q: want Role:credits", r)
		}
		n, err := strconv.Atoi(credits)
		if err != nil {
			return nil, fmt.Errorf("collaborator %q: %w", r, err)
		}
		out = append(out, client.CollaboratorRole{Role: strings.TrimSpace(role), Credits: n})
	}
	return out, nil
}

func newCreatePostingCmd() *cobra.Command {
	var role, payment, style, location string
	var credits bool
	var collaborators []string

	cmd := &cobra.Command{
		Use:   "create-posting",
		Short: "Publish a collaboration",
		RunE: func(cmd *cobra.Command, args []string) error {
			roles, err := parseCollaborators(collaborators)
			if err != nil {
				return err
			}
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := c.Queries().CreatePosting(ctx, client.CreatePostingRequest{
				Role:          role,
				PaymentType:   client.PaymentType(payment),
				Credits:       credits,
				WorkStyle:     client.WorkStyle(style),
				Location:      location,
				Collaborators: roles,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Role sought (required)")
	cmd.Flags().StringVar(&payment, "payment-type", "", "paid, barter or both (required)")
	cmd.Flags().StringVar(&style, "work-style", "", "contract or freestyle (required)")
	cmd.Flags().StringVar(&location, "location", "", "Location")
	cmd.Flags().BoolVar(&credits, "credits", false, "Offer credits")
	cmd.Flags().StringArrayVar(&collaborators, "collaborator", nil, "Role:credits (repeatable)")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("payment-type")
	_ = cmd.MarkFlagRequired("work-style")
	return cmd
}

func newUpdatePostingCmd() *cobra.Command {
	var id, status string
	cmd := &cobra.Command{
		Use:   "update-posting",
		Short: "Change a collaboration's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := c.Queries().UpdatePostingStatus(ctx, id, client.PostingStatus(status))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Posting ID (required)")
	cmd.Flags().StringVar(&status, "status", "", "open, shortlisted, signed or closed (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newPingCmd() *cobra.Command {
	var id, role, bio string
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Express interest in a collaboration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := c.Queries().PingPosting(ctx, id, role, bio)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Posting ID (required)")
	cmd.Flags().StringVar(&role, "role", "", "Role you are interested in (required)")
	cmd.Flags().StringVar(&bio, "bio", "", "Short pitch")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newPingsCmd() *cobra.Command {
	var page, limit int
	var status string
	cmd := &cobra.Command{
		Use:   "pings",
		Short: "List pings received on your collaborations",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := c.Queries().ReceivedPings(ctx, client.PingFilters{Page: page, Limit: limit, Status: client.PingStatus(status)})
			if err != nil {
				return err
			}
			if !res.Ready {
				return client.ErrNoIdentity
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&status, "status", "", "pending, accepted or declined")
	return cmd
}

func newRespondCmd() *cobra.Command {
	var id, action string
	cmd := &cobra.Command{
		Use:   "respond",
		Short: "Accept or decline a ping",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := client.PingAction(action)
			if !a.Valid() {
				return fmt.Errorf("action must be accept or decline, got %q", action)
			}
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := c.Queries().RespondToPing(ctx, id, a)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Ping ID (required)")
	cmd.Flags().StringVar(&action, "action", "", "accept or decline (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newMatchesCmd() *cobra.Command {
	var page, limit int
	var status string
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List your matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := c.Queries().Matches(ctx, client.MatchFilters{Page: page, Limit: limit, Status: client.MatchStatus(status)})
			if err != nil {
				return err
			}
			if !res.Ready {
				return client.ErrNoIdentity
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&status, "status", "", "active, completed or cancelled")
	return cmd
}

func newMessagesCmd() *cobra.Command {
	var matchID string
	var page, limit int
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Show a match thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := c.Queries().Messages(ctx, matchID, client.MessageFilters{Page: page, Limit: limit})
			if err != nil {
				return err
			}
			if !res.Ready {
				return client.ErrNoIdentity
			}
			return printJSON(cmd.OutOrStdout(), res.Data)
		},
	}
	cmd.Flags().StringVar(&matchID, "match-id", "", "Match ID (required)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	_ = cmd.MarkFlagRequired("match-id")
	return cmd
}

func newSendCmd() *cobra.Command {
	var matchID, content, msgType string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message in a match thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := c.Queries().SendMessage(ctx, matchID, client.SendMessageRequest{
				Content:     content,
				MessageType: client.MessageType(msgType),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&matchID, "match-id", "", "Match ID (required)")
	cmd.Flags().StringVar(&content, "content", "", "Message text (required)")
	cmd.Flags().StringVar(&msgType, "type", "text", "text, image, file or milestone")
	_ = cmd.MarkFlagRequired("match-id")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newMarkReadCmd() *cobra.Command {
	var matchID string
	cmd := &cobra.Command{
		Use:   "mark-read",
		Short: "Mark a match thread as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			res, err := c.Queries().MarkMessagesRead(ctx, matchID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&matchID, "match-id", "", "Match ID (required)")
	_ = cmd.MarkFlagRequired("match-id")
	return cmd
}

func newProfileCmd() *cobra.Command {
	var identifier string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Look up a creator profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			if identifier == "" {
				wallet, ok := c.Identity().Address()
				if !ok {
					return client.ErrNoIdentity
				}
				identifier = wallet
			}
			p, err := c.Coins().Profile(ctx, identifier)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"displayName": client.DisplayName(p, identifier),
				"profile":     p,
			})
		},
	}
	cmd.Flags().StringVar(&identifier, "identifier", "", "Wallet or handle (default: your wallet)")
	return cmd
}

func newCoinCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "coin",
		Short: "Look up creator-coin data",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, done, err := session(cmd)
			if err != nil {
				return err
			}
			defer done()
			coin, err := c.Coins().Coin(ctx, address)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), coin)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Coin contract address (required)")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
