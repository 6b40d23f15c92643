package syncjob

import (
	"errors"
	"testing"
)

func TestDecodePayload_RoundTripsEachType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload Payload
	}{
		{name: "league", payload: LeaguePayload{LeagueID: 4328, LeagueName: "English Premier League", LeagueType: "national"}},
		{name: "club", payload: ClubPayload{TeamID: 133604, TeamName: "Arsenal"}},
		{name: "player", payload: PlayerPayload{TopicID: "9f1c7c1e-0000-0000-0000-000000000001", UpstreamPlayerID: 34145937}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			raw, err := EncodePayload(tc.payload)
			if err != nil {
				t.Fatalf("encode payload: %v", err)
			}
			decoded, err := DecodePayload(tc.payload.JobType(), raw)
			if err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			if decoded != tc.payload {
				t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, tc.payload)
			}
		})
	}
}

func TestDecodePayload_RejectsUnknownType(t *testing.T) {
	t.Parallel()

	_, err := DecodePayload(Type("sync_galaxy"), []byte(`{}`))
	if !errors.Is(err, ErrUnknownJobType) {
		t.Fatalf("expected ErrUnknownJobType, got %v", err)
	}
}

func TestNewJobValidate(t *testing.T) {
	t.Parallel()

	if err := (NewJob{Type: TypeSyncLeague, Payload: LeaguePayload{LeagueID: 4328}}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (NewJob{Type: TypeSyncLeague, Payload: ClubPayload{TeamID: 1}}).Validate(); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if err := (NewJob{Type: TypeSyncClub}).Validate(); err == nil {
		t.Fatalf("expected nil payload error")
	}
}
