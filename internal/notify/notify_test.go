package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "06 12 34 56 78", want: "+33612345678"},
		{in: "06.12.34.56.78", want: "+33612345678"},
		{in: "612345678", want: "+33612345678"},
		{in: "+33 6 12 34 56 78", want: "+33612345678"},
		{in: "+33 (0)6 12 34 56 78", want: "+33612345678"},
		{in: "0033612345678", want: "+33612345678"},
		{in: "+32 470 12 34 56", want: "+32470123456"},
		{in: "", err: true},
		{in: "12", err: true},
		{in: "06 12 AB 56 78", err: true},
		{in: "+33", err: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizePhone(tc.in)
			if tc.err {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	args := m.Called(params)
	msg, _ := args.Get(0).(*twilioApi.ApiV2010Message)
	return msg, args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTwilio_Send(t *testing.T) {
	api := new(MockAPI)
	sid := "SM123"
	api.On("CreateMessage", mock.MatchedBy(func(p *twilioApi.CreateMessageParams) bool {
		return *p.To == "+33612345678" && *p.From == "+33100000000" && *p.Body == "Bonjour"
	})).Return(&twilioApi.ApiV2010Message{Sid: &sid}, nil).Once()

	n := &Twilio{api: api, from: "+33100000000", log: discard()}
	require.NoError(t, n.Send(context.Background(), "06 12 34 56 78", "Bonjour"))
	api.AssertExpectations(t)
}

func TestTwilio_SendErrors(t *testing.T) {
	api := new(MockAPI)
	api.On("CreateMessage", mock.Anything).Return(nil, errors.New("rejected")).Once()
	n := &Twilio{api: api, from: "+33100000000", log: discard()}

	err := n.Send(context.Background(), "0612345678", "x")
	assert.ErrorContains(t, err, "rejected")

	err = n.Send(context.Background(), "abc", "x")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = n.Send(ctx, "0612345678", "x")
	assert.ErrorIs(t, err, context.Canceled)

	api.AssertExpectations(t)
}

func TestNew(t *testing.T) {
	assert.IsType(t, &LogNotifier{}, New(discard(), config.Twilio{}))
	assert.IsType(t, &Twilio{}, New(discard(), config.Twilio{Enabled: true, AccountSID: "AC1", AuthToken: "t", From: "+331"}))

	require.NoError(t, NewLogNotifier(discard()).Send(context.Background(), "0612345678", "x"))
}
