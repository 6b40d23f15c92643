package fixture

import "testing"

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Not Started", StatusNotStarted},
		{"", StatusNotStarted},
		{"  Match Finished ", StatusFullTime},
		{"Half Time", StatusHalfTime},
		{"halftime", StatusHalfTime},
		{"1st Half", StatusFirstHalf},
		{"First Half", StatusFirstHalf},
		{"2nd Half", StatusSecondHalf},
		{"Extra Time", StatusExtraTime},
		{"Penalties", StatusPenalties},
		{"Postponed", StatusPostponed},
		{"Abandoned", StatusAbandoned},
		{"FT", StatusFullTime},
		{"38'", StatusLive},
		{"45+2'", StatusLive},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.in); got != tc.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	t.Parallel()

	for _, status := range []string{StatusLive, StatusFirstHalf, StatusHalfTime, StatusSecondHalf, StatusExtraTime, StatusPenalties} {
		if !IsLiveStatus(status) {
			t.Fatalf("expected %s to count as live", status)
		}
	}
	if IsLiveStatus(StatusNotStarted) || IsLiveStatus(StatusFullTime) {
		t.Fatalf("NS/FT must not count as live")
	}
	if !IsFinishedStatus(StatusFullTime) {
		t.Fatalf("FT must count as finished")
	}
	if !IsCancelledLikeStatus(StatusPostponed) || !IsCancelledLikeStatus(StatusAbandoned) {
		t.Fatalf("PST/ABD must count as cancelled-like")
	}
}
