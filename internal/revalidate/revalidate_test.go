package revalidate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"realty-crm/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	name string
	err  error

	mu   sync.Mutex
	sigs []Signal
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Send(ctx context.Context, sig Signal) error {
	f.mu.Lock()
	f.sigs = append(f.sigs, sig)
	f.mu.Unlock()
	return f.err
}

func TestFanout_SendsToEverySink(t *testing.T) {
	ok := &fakeSink{name: "ok"}
	broken := &fakeSink{name: "broken", err: errors.New("unreachable")}
	f := NewFanout("test", logger.NewNoOpLogger(), ok, broken)

	err := f.Revalidate(context.Background(), ViewInterests, ViewTasks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: unreachable")

	require.Len(t, ok.sigs, 1)
	assert.Equal(t, []string{ViewInterests, ViewTasks}, ok.sigs[0].Views)
	assert.Equal(t, "test", ok.sigs[0].Source)
	assert.Len(t, broken.sigs, 1)
}

func TestFanout_NoViewsIsNoop(t *testing.T) {
	s := &fakeSink{name: "ok"}
	f := NewFanout("test", logger.NewNoOpLogger(), s)

	assert.NoError(t, f.Revalidate(context.Background()))
	assert.Empty(t, s.sigs)
}

func TestRedisSink_DeletesKeysAndPublishes(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	require.NoError(t, rdb.Set(ctx, ViewKey(ViewTasks), "cached", 0).Err())
	require.NoError(t, rdb.Set(ctx, ViewKey(ViewJobReports), "cached", 0).Err())

	sub := rdb.Subscribe(ctx, "crm.revalidate")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	sink := NewRedisSink(rdb, "")
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, sink.Send(ctx, Signal{Views: []string{ViewTasks}, Source: "test", At: at}))

	assert.False(t, mr.Exists(ViewKey(ViewTasks)))
	assert.True(t, mr.Exists(ViewKey(ViewJobReports)))

	select {
	case msg := <-sub.Channel():
		var sig Signal
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &sig))
		assert.Equal(t, []string{ViewTasks}, sig.Views)
		assert.True(t, at.Equal(sig.At))
	case <-time.After(time.Second):
		t.Fatal("no revalidation message published")
	}
}

func TestRedisSink_DeleteError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel(ViewKey(ViewTasks)).SetErr(errors.New("connection refused"))

	err := NewRedisSink(rdb, "").Send(context.Background(), Signal{Views: []string{ViewTasks}})
	assert.EqualError(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchSink_IndexesOneDocumentPerView(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result":"created"}`))
	}))
	defer srv.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	sink := NewSearchSink(es, "views")
	require.NoError(t, sink.Send(context.Background(), Signal{Views: []string{ViewInterests, ViewTasks}, At: time.Now()}))

	assert.Equal(t, []string{"PUT /views/_doc/property_interests", "PUT /views/_doc/tasks"}, paths)
}

func TestSearchSink_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	err = NewSearchSink(es, "").Send(context.Background(), Signal{Views: []string{ViewTasks}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func TestKafkaSink_KeysByView(t *testing.T) {
	w := &fakeWriter{}
	sink := NewKafkaSink(w)

	require.NoError(t, sink.Send(context.Background(), Signal{Views: []string{ViewInterests, ViewTasks}, Source: "worker"}))
	require.Len(t, w.msgs, 2)
	assert.Equal(t, ViewInterests, string(w.msgs[0].Key))
	assert.Equal(t, ViewTasks, string(w.msgs[1].Key))

	var sig Signal
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &sig))
	assert.Equal(t, []string{ViewTasks}, sig.Views)
	assert.Equal(t, "worker", sig.Source)
}
