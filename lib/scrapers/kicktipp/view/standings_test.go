package view

import (
	"context"
	"testing"

	"tippassist-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStandings(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	page := `<html><body>
	<table id="rangliste"><tbody>
	<tr>
		<td class="position">1.</td>
		<td class="name">alice</td>
		<td class="punkte">42</td>
	</tr>
	<tr>
		<td class="position">2.</td>
		<td class="name">bob</td>
		<td class="punkte">37</td>
	</tr>
	<tr>
		<td class="position"></td>
		<td class="name">Gesamt</td>
		<td class="punkte">abc</td>
	</tr>
	</tbody></table>
	</body></html>`

	client := newTestClient(t, servePage(map[string]string{
		"/testrunde/tabellen": page,
	}))

	standings, err := client.Standings(context.Background())
	require.NoError(t, err)

	want := []Standing{
		{Rank: 1, Name: "alice", Points: 42},
		{Rank: 2, Name: "bob", Points: 37},
	}
	if diff := cmp.Diff(want, standings); diff != "" {
		t.Fatalf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestStandingsMissingPage(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	client := newTestClient(t, servePage(map[string]string{}))

	standings, err := client.Standings(context.Background())
	require.NoError(t, err)
	require.Empty(t, standings)
}
