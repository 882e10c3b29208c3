package transport

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/byzantine-generals/generals"
)

func TestHTTPDeliversAtRoundEnd(t *testing.T) {
	tr, err := NewHTTP([]generals.ID{1, 2})
	require.NoError(t, err)
	defer tr.Close()

	one, two := &inbox{}, &inbox{}
	tr.Attach(1, one)
	tr.Attach(2, two)

	require.NoError(t, tr.Send(0, 1, generals.Message{Path: generals.Path{0}, Value: generals.OrderAttack}))
	require.NoError(t, tr.Send(0, 2, generals.Message{Path: generals.Path{0}, Value: generals.OrderRetreat}))
	require.Empty(t, one.delivered)

	require.NoError(t, tr.EndRound())
	require.Len(t, one.delivered, 1)
	require.Len(t, two.delivered, 1)
	require.Equal(t, generals.OrderAttack, one.delivered[0].Value)
	require.Equal(t, generals.Path{0}, one.delivered[0].Path)
	require.Equal(t, generals.OrderRetreat, two.delivered[0].Value)
}

// The Round header is the barrier: a message stamped for another round must
// be refused.
func TestHTTPRejectsWrongRound(t *testing.T) {
	tr, err := NewHTTP([]generals.ID{1})
	require.NoError(t, err)
	defer tr.Close()
	tr.Attach(1, &inbox{})

	req, err := http.NewRequest(http.MethodPost, "http://"+tr.Addresses[1],
		strings.NewReader(`{"path":[0],"value":"ATTACK"}`))
	require.NoError(t, err)
	req.Header.Set("Round", "5")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotAcceptable, resp.StatusCode)
}

func TestHTTPRejectsUnknownRecipient(t *testing.T) {
	tr, err := NewHTTP([]generals.ID{1})
	require.NoError(t, err)
	defer tr.Close()
	require.Error(t, tr.Send(0, 9, generals.Message{Path: generals.Path{0}, Value: generals.OrderAttack}))
}

// A full run over the HTTP transport must give the same outcome as over the
// in-memory one.
func TestHTTPEndToEnd(t *testing.T) {
	cfg := generals.RunConfig{
		N:      4,
		F:      1,
		Order:  generals.OrderAttack,
		Faults: generals.NewFaultModel(4).SetTraitor(3, generals.InconsistentLiar{}),
	}
	tr, err := NewHTTP(cfg.Lieutenants())
	require.NoError(t, err)
	defer tr.Close()

	runner, err := generals.NewRunner(cfg, tr)
	require.NoError(t, err)
	res, err := runner.Run()
	require.NoError(t, err)

	require.Equal(t, generals.OrderAttack, res.Decisions[1])
	require.Equal(t, generals.OrderAttack, res.Decisions[2])
	require.True(t, res.Agreement())
	require.True(t, res.Validity())
}
