package multiplayer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/drop-duel/internal/games/drop"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Inbound
	}{
		{"join with name", `{"type":"join_game","player_name":"Ann"}`, JoinGame{PlayerName: "Ann"}},
		{"join default name", `{"type":"join_game"}`, JoinGame{PlayerName: DefaultPlayerName}},
		{"move", `{"type":"move","direction":"left"}`, Move{Direction: "left"}},
		{"pick", `{"type":"pick_ball","column":3}`, PickBall{Column: 3}},
		{"pick column zero", `{"type":"pick_ball","column":0}`, PickBall{Column: 0}},
		{"pick without column", `{"type":"pick_ball"}`, PickBall{Column: -1}},
		{"throw", `{"type":"throw_balls","column":7}`, ThrowBalls{Column: 7}},
		{"unknown type", `{"type":"dance"}`, Unknown{Type: "dance"}},
		{"missing type", `{}`, Unknown{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []string{``, `not json`, `{"type":`, `{"type":"pick_ball","column":"two"}`} {
		_, err := Decode([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, msg := range []Inbound{
		JoinGame{PlayerName: "Ann"},
		Move{Direction: "right"},
		PickBall{Column: 0},
		ThrowBalls{Column: 5},
	} {
		data, err := Encode(msg)
		require.NoError(t, err)
		got, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	}
}

func TestEncodeColumnZeroIsPresent(t *testing.T) {
	data, err := Encode(PickBall{Column: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pick_ball","column":0}`, string(data))
}

func TestOutboundWireShape(t *testing.T) {
	s := drop.NewSession("s1", drop.DefaultRules(), nil)
	require.True(t, s.AddPlayer("p1", "Ann"))

	data, err := json.Marshal(GameState(s.Snapshot()))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "game_state",
		"data": {
			"state": "waiting",
			"players": {
				"p1": {
					"name": "Ann",
					"score": 0,
					"field": [[],[],[],[],[],[],[],[]],
					"current_chain": [],
					"game_over": false
				}
			}
		}
	}`, string(data))

	out, err := DecodeOutbound(data)
	require.NoError(t, err)
	assert.Equal(t, drop.StateWaiting, out.Data.State)
	assert.Equal(t, "Ann", out.Data.Players["p1"].Name)

	_, err = DecodeOutbound([]byte(`{"type":"other"}`))
	assert.Error(t, err)
}
