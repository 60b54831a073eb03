package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strconv"
	"strings"
	"testing"
	"time"

	"circlepoint/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string
	got  []Message
	err  error
	boom bool
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Send(_ context.Context, m Message) error {
	if r.boom {
		panic("sink exploded")
	}
	r.got = append(r.got, m)
	return r.err
}

func TestDispatcher_IsolatesFailingSinks(t *testing.T) {
	failing := &recordingSink{name: "failing", err: errors.New("smtp down")}
	panicking := &recordingSink{name: "panicking", boom: true}
	ok := &recordingSink{name: "ok"}
	d := NewDispatcher(failing, panicking, ok)

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), Message{Type: TypeBookingCreated, UserID: "u1"})
	})
	d.Wait()
	assert.Len(t, failing.got, 1)
	assert.Len(t, ok.got, 1)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), Message{})
		d.Wait()
	})
}

type slowSink struct {
	delay     time.Duration
	delivered chan Message
	ctxErr    chan error
}

func (s *slowSink) Name() string { return "slow" }

func (s *slowSink) Send(ctx context.Context, m Message) error {
	select {
	case <-time.After(s.delay):
		s.delivered <- m
		return nil
	case <-ctx.Done():
		s.ctxErr <- ctx.Err()
		return ctx.Err()
	}
}

func newSlowSink(delay time.Duration) *slowSink {
	return &slowSink{delay: delay, delivered: make(chan Message, 1), ctxErr: make(chan error, 1)}
}

func TestDispatcher_SlowSinkDoesNotBlockCaller(t *testing.T) {
	sink := newSlowSink(500 * time.Millisecond)
	svc := NewService(NewDispatcher(sink), "https://circlepoint.test", "CirclePoint")

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	svc.NotifyBookingConfirmed(ctx, &domain.User{ID: "g1", Email: "g@example.com"}, &domain.Booking{ID: "b1"}, &domain.Property{Title: "Loft"})
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	// The request finishing must not abort delivery.
	cancel()

	select {
	case m := <-sink.delivered:
		assert.Equal(t, TypeBookingConfirmed, m.Type)
		assert.Equal(t, "g1", m.UserID)
	case err := <-sink.ctxErr:
		t.Fatalf("delivery cancelled: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("message never delivered")
	}
	svc.dispatcher.Wait()
}

func TestDispatcher_TimeoutBoundsDelivery(t *testing.T) {
	sink := newSlowSink(time.Minute)
	d := NewDispatcher(sink).WithTimeout(50 * time.Millisecond)

	d.Dispatch(context.Background(), Message{Type: TypeBookingCreated})
	d.Wait()

	select {
	case err := <-sink.ctxErr:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	default:
		t.Fatal("sink was not cut off by the delivery timeout")
	}
}

func TestService_BookingCreatedTargetsManager(t *testing.T) {
	sink := &recordingSink{name: "rec"}
	svc := NewService(NewDispatcher(sink), "https://circlepoint.test/", "CirclePoint")

	manager := &domain.User{ID: "m1", Email: "m@example.com"}
	p := &domain.Property{ID: "p1", Title: "Loft"}
	b := &domain.Booking{
		ID:         "b1",
		CheckIn:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		TotalPrice: decimal.NewFromInt(160),
	}
	svc.NotifyBookingCreated(context.Background(), manager, b, p)
	svc.dispatcher.Wait()

	require.Len(t, sink.got, 1)
	m := sink.got[0]
	assert.Equal(t, TypeBookingCreated, m.Type)
	assert.Equal(t, "m1", m.UserID)
	assert.Equal(t, "m@example.com", m.Email)
	assert.Contains(t, m.Body, "160.00")
	assert.Contains(t, m.Body, "https://circlepoint.test/manager/bookings")
	assert.Equal(t, "b1", m.Data["booking_id"])
}

func TestMailer_SkipsWithoutRecipientOrHost(t *testing.T) {
	called := false
	m := NewMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	m.sendMail = func(context.Context, string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}
	require.NoError(t, m.Send(context.Background(), Message{Title: "x"}))
	assert.False(t, called)

	m.cfg.Host = ""
	require.NoError(t, m.Send(context.Background(), Message{Email: "g@example.com"}))
	assert.False(t, called)
}

func TestMailer_BuildsMessage(t *testing.T) {
	var gotAddr string
	var gotTo []string
	var gotBody []byte
	m := NewMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	m.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	m.sendMail = func(_ context.Context, addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotBody = addr, to, msg
		return nil
	}

	err := m.Send(context.Background(), Message{Email: "g@example.com", Title: "Hi\r\nBcc: evil@example.com", Body: "line1\nline2"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"g@example.com"}, gotTo)

	body := string(gotBody)
	assert.Contains(t, body, "Subject: Hi  Bcc: evil@example.com\r\n")
	assert.Contains(t, body, "line1\r\nline2")
	assert.NotContains(t, body, "\r\nBcc:")
}

func TestMailer_WrapsSendErrors(t *testing.T) {
	m := NewMailer(SMTPConfig{Host: "smtp.example.com", Port: 25})
	m.sendMail = func(context.Context, string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err := m.Send(context.Background(), Message{Email: "g@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}

func TestMailer_SilentServerHitsDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	m := NewMailer(SMTPConfig{Host: host, Port: p, From: "noreply@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = m.Send(ctx, Message{Email: "g@example.com", Title: "hello"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	select {
	case conn := <-accepted:
		conn.Close()
	default:
	}
}

func TestHub_DeliversToConnectedUser(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.ServeWS(conn, r.URL.Query().Get("user"))
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=u1"
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.Connected("u1") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Send(context.Background(), Message{Type: TypeBookingConfirmed, UserID: "u1", Title: "ok"}))
	require.NoError(t, hub.Send(context.Background(), Message{Type: TypeBookingConfirmed, UserID: "someone-else"}))

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := client.ReadMessage()
	require.NoError(t, err)

	var got Message
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, TypeBookingConfirmed, got.Type)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "ok", got.Title)

	client.Close()
	require.Eventually(t, func() bool { return hub.Connected("u1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
