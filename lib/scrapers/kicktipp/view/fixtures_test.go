package view

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tippassist-backend/lib/scrapers/kicktipp/core"
	"tippassist-backend/lib/telemetry"
	"tippassist-backend/lib/timezone"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestClient(t testing.TB, handler http.Handler) Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	coreClient, err := core.NewClient(context.Background(), core.ClientOptions{
		BaseUrl:   server.URL,
		Community: "testrunde",
	})
	require.NoError(t, err)
	return NewClient(coreClient, ClientOptions{})
}

func servePage(pages map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	})
}

const tippabgabePage = `<html><body>
<h1 class="headline">3. Spieltag</h1>
<form id="tippabgabeForm" action="/testrunde/tippabgabe">
<input type="hidden" name="spieltagIndex" value="3"/>
<table id="tippabgabeSpiele"><tbody>
<tr>
	<td class="kicktipp-time">27.08.26 15:30</td>
	<td class="heim">Team A</td>
	<td class="gast">Team B</td>
	<td class="spielinfo"><a href="/testrunde/spielinfo?tippspielId=101">Info</a></td>
	<td>
		<input type="tel" name="spieltippForms[101].heimTipp" value="2"/>
		<input type="tel" name="spieltippForms[101].gastTipp" value="1"/>
	</td>
</tr>
<tr>
	<td class="kicktipp-time"></td>
	<td class="heim">Team C</td>
	<td class="gast">Team D</td>
	<td class="spielinfo"><a href="/testrunde/spielinfo?tippspielId=102">Info</a></td>
	<td>
		<input type="tel" name="spieltippForms[102].heimTipp" value=""/>
		<input type="tel" name="spieltippForms[102].gastTipp" value=""/>
	</td>
</tr>
</tbody></table>
</form>
</body></html>`

func TestFixtures(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	client := newTestClient(t, servePage(map[string]string{
		"/testrunde/tippabgabe": tippabgabePage,
	}))

	fixtures, err := client.Fixtures(context.Background())
	require.NoError(t, err)

	kickoff := time.Date(2026, 8, 27, 15, 30, 0, 0, timezone.Location)
	want := []Fixture{
		{Home: "Team A", Away: "Team B", Kickoff: kickoff, Matchday: 3},
		// the second row has no own date and inherits the first row's
		{Home: "Team C", Away: "Team D", Kickoff: kickoff, Matchday: 3},
	}
	if diff := cmp.Diff(want, fixtures); diff != "" {
		t.Fatalf("fixtures mismatch (-want +got):\n%s", diff)
	}
}

func TestFixturesRowFiltering(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	// a status row without prediction inputs and a row without team
	// cells must be skipped, not turned into errors
	page := `<html><body>
	<table id="tippabgabeSpiele"><tbody>
	<tr><td colspan="5">Spiele vom Wochenende</td></tr>
	<tr>
		<td class="kicktipp-time">01.09.26 20:30</td>
		<td class="heim">Team A</td>
		<td class="gast">Team B</td>
		<td>
			<input type="tel" name="spieltippForms[7].heimTipp" value=""/>
			<input type="tel" name="spieltippForms[7].gastTipp" value=""/>
		</td>
	</tr>
	<tr>
		<td class="kicktipp-time">02.09.26 18:30</td>
		<td class="heim">Team E</td>
		<td class="gast">Team F</td>
		<td class="status">bereits gespielt</td>
	</tr>
	</tbody></table>
	</body></html>`

	client := newTestClient(t, servePage(map[string]string{
		"/testrunde/tippabgabe": page,
	}))

	fixtures, err := client.Fixtures(context.Background())
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	require.Equal(t, "Team A", fixtures[0].Home)
	// no heading and no hidden index on this page
	require.Equal(t, 1, fixtures[0].Matchday)
}

func TestFixturesCancelledInheritsKickoff(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	page := `<html><body>
	<input type="hidden" name="spieltagIndex" value="7"/>
	<table id="tippabgabeSpiele"><tbody>
	<tr>
		<td class="kicktipp-time">05.09.26 15:30</td>
		<td class="heim">Team A</td>
		<td class="gast">Team B</td>
		<td>
			<input type="tel" name="spieltippForms[1].heimTipp" value=""/>
			<input type="tel" name="spieltippForms[1].gastTipp" value=""/>
		</td>
	</tr>
	<tr>
		<td class="kicktipp-time"></td>
		<td class="heim">Team C</td>
		<td class="gast">Team D</td>
		<td class="status">abgesagt</td>
		<td>
			<input type="tel" name="spieltippForms[2].heimTipp" value=""/>
			<input type="tel" name="spieltippForms[2].gastTipp" value=""/>
		</td>
	</tr>
	<tr>
		<td class="kicktipp-time"></td>
		<td class="heim">Team E</td>
		<td class="gast">Team F</td>
		<td>
			<input type="tel" name="spieltippForms[3].heimTipp" value=""/>
			<input type="tel" name="spieltippForms[3].gastTipp" value=""/>
		</td>
	</tr>
	</tbody></table>
	</body></html>`

	client := newTestClient(t, servePage(map[string]string{
		"/testrunde/tippabgabe": page,
	}))

	fixtures, err := client.Fixtures(context.Background())
	require.NoError(t, err)
	require.Len(t, fixtures, 3)

	kickoff := time.Date(2026, 9, 5, 15, 30, 0, 0, timezone.Location)
	require.True(t, fixtures[1].Cancelled)
	// inheritance holds across cancelled rows too
	require.True(t, fixtures[1].Kickoff.Equal(kickoff))
	require.False(t, fixtures[2].Cancelled)
	require.True(t, fixtures[2].Kickoff.Equal(kickoff))
	// matchday falls back to the hidden index field
	require.Equal(t, 7, fixtures[0].Matchday)
}

func TestFixturesFirstRowWithoutDate(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	page := `<html><body>
	<table id="tippabgabeSpiele"><tbody>
	<tr>
		<td class="kicktipp-time"></td>
		<td class="heim">Team A</td>
		<td class="gast">Team B</td>
		<td>
			<input type="tel" name="spieltippForms[1].heimTipp" value=""/>
			<input type="tel" name="spieltippForms[1].gastTipp" value=""/>
		</td>
	</tr>
	</tbody></table>
	</body></html>`

	client := newTestClient(t, servePage(map[string]string{
		"/testrunde/tippabgabe": page,
	}))

	fixtures, err := client.Fixtures(context.Background())
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	require.True(t, fixtures[0].Kickoff.Equal(fallbackKickoff))
}

func TestFixturesMissingTable(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	client := newTestClient(t, servePage(map[string]string{
		"/testrunde/tippabgabe": "<html><body><p>Noch keine Spiele.</p></body></html>",
	}))

	fixtures, err := client.Fixtures(context.Background())
	require.NoError(t, err)
	require.Empty(t, fixtures)
}

func TestFixturesPageNotFound(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	client := newTestClient(t, servePage(map[string]string{}))

	fixtures, err := client.Fixtures(context.Background())
	require.NoError(t, err)
	require.Empty(t, fixtures)
}

func TestPredictionsBothOrAbsent(t *testing.T) {
	defer telemetry.SetupForTesting("test:scrapers/kicktipp/view")()

	page := `<html><body>
	<table id="tippabgabeSpiele"><tbody>
	<tr>
		<td class="kicktipp-time">05.09.26 15:30</td>
		<td class="heim">Team A</td>
		<td class="gast">Team B</td>
		<td>
			<input type="tel" name="spieltippForms[1].heimTipp" value="2"/>
			<input type="tel" name="spieltippForms[1].gastTipp" value="1"/>
		</td>
	</tr>
	<tr>
		<td class="kicktipp-time"></td>
		<td class="heim">Team C</td>
		<td class="gast">Team D</td>
		<td>
			<input type="tel" name="spieltippForms[2].heimTipp" value="3"/>
			<input type="tel" name="spieltippForms[2].gastTipp" value=""/>
		</td>
	</tr>
	<tr>
		<td class="kicktipp-time"></td>
		<td class="heim">Team E</td>
		<td class="gast">Team F</td>
		<td>
			<input type="tel" name="spieltippForms[3].heimTipp" value="x"/>
			<input type="tel" name="spieltippForms[3].gastTipp" value="0"/>
		</td>
	</tr>
	</tbody></table>
	</body></html>`

	client := newTestClient(t, servePage(map[string]string{
		"/testrunde/tippabgabe": page,
	}))

	placed, err := client.Predictions(context.Background())
	require.NoError(t, err)
	require.Len(t, placed, 3)

	require.NotNil(t, placed[0].Prediction)
	require.Equal(t, Prediction{Home: 2, Away: 1}, *placed[0].Prediction)
	// one empty field resolves to absent, never a one-sided value
	require.Nil(t, placed[1].Prediction)
	// unparseable numbers resolve to absent, not an error
	require.Nil(t, placed[2].Prediction)
}
