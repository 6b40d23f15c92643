package usecase

import (
	"context"

	"github.com/TheMidfield/midfield-sync/external/thesportsdb"
	"github.com/TheMidfield/midfield-sync/internal/domain/fixture"
	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
)

// buildFixtures maps upstream events to fixture rows, resolving club
// topics as it goes. Events without an id cannot be keyed and are
// skipped. When leagueTopicID is empty the league is resolved per
// event, which is how club schedules spanning several competitions
// are handled.
func buildFixtures(ctx context.Context, resolver *ResolverService, leagueTopicID, season string, events []thesportsdb.Event) ([]fixture.Fixture, error) {
	fixtures := make([]fixture.Fixture, 0, len(events))
	for _, event := range events {
		if event.ID <= 0 {
			continue
		}

		eventLeagueID := leagueTopicID
		if eventLeagueID == "" {
			if event.LeagueID <= 0 {
				continue
			}
			league, err := resolver.Resolve(ctx, topic.TypeLeague, event.LeagueID, "")
			if err != nil {
				return nil, err
			}
			eventLeagueID = league.ID
		}

		var homeTopicID, awayTopicID string
		if event.HomeTeamID > 0 {
			home, err := resolver.Resolve(ctx, topic.TypeClub, event.HomeTeamID, event.HomeTeam)
			if err != nil {
				return nil, err
			}
			homeTopicID = home.ID
		}
		if event.AwayTeamID > 0 {
			away, err := resolver.Resolve(ctx, topic.TypeClub, event.AwayTeamID, event.AwayTeam)
			if err != nil {
				return nil, err
			}
			awayTopicID = away.ID
		}

		fixtures = append(fixtures, fixture.Fixture{
			ExternalID:    event.ID,
			LeagueTopicID: eventLeagueID,
			HomeTopicID:   homeTopicID,
			AwayTopicID:   awayTopicID,
			HomeTeam:      event.HomeTeam,
			AwayTeam:      event.AwayTeam,
			HomeBadgeURL:  event.HomeBadgeURL,
			AwayBadgeURL:  event.AwayBadgeURL,
			Venue:         event.Venue,
			KickoffAt:     event.KickoffAt,
			Status:        fixture.NormalizeStatus(event.Status),
			HomeScore:     event.HomeScore,
			AwayScore:     event.AwayScore,
			Gameweek:      event.Round,
			Season:        firstNonEmptyString(event.Season, season),
		})
	}
	return fixtures, nil
}
