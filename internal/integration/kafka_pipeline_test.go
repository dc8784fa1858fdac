//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/quake-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/config"
	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const (
	testPageViewTopic = "test-page-views"
	fixturePath       = "../adapter/csvfile/testdata/quakes.csv"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node KRaft broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("quake-dashboard-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "find controller")

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic %s", topic)
}

type receivedView struct {
	View    domain.PageView
	Key     string
	Headers map[string]string
}

func readView(ctx context.Context, t *testing.T, consumer *kafkago.Reader) receivedView {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from page-view topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var view domain.PageView
	require.NoError(t, json.Unmarshal(msg.Value, &view), "unmarshal page view")
	return receivedView{View: view, Key: string(msg.Key), Headers: headers}
}

func newConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testPageViewTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestWriterRoundTrip publishes one page view and reads it back with headers.
func TestWriterRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testPageViewTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaPageViewTopic: testPageViewTopic}
	metrics := observability.NewMetricsForTesting()
	writer := kafka.NewWriter(cfg, discardLogger(), metrics)

	view := domain.NewPageView("map", url.Values{"group_by": {"Continent"}}, 15*time.Millisecond, domain.OutcomeOK)
	require.NoError(t, writer.Publish(ctx, view))
	require.NoError(t, writer.Close(), "close flushes queued events")

	got := readView(ctx, t, newConsumer(t, broker))
	assert.Equal(t, view.ID, got.Key)
	assert.Equal(t, "map", got.Headers["page"])
	_, err := time.Parse(time.RFC3339, got.Headers["rendered_at"])
	assert.NoError(t, err, "rendered_at should be valid RFC3339")
	assert.Equal(t, view.Page, got.View.Page)
	assert.Equal(t, []string{"Continent"}, got.View.Params["group_by"])
	assert.Equal(t, domain.OutcomeOK, got.View.Outcome)
}

// TestDashboardPublishesPageViews renders every page through the dashboard
// and expects one event per render on the topic.
func TestDashboardPublishesPageViews(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testPageViewTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaPageViewTopic: testPageViewTopic}
	metrics := observability.NewMetricsForTesting()
	writer := kafka.NewWriter(cfg, discardLogger(), metrics)

	loader := csvfile.NewCachedLoader(
		csvfile.NewLoader(fixturePath, nil, discardLogger(), metrics),
		discardLogger(), metrics,
	)
	dash := dashboard.New(loader, writer, dashboard.Options{
		DatasetPath: fixturePath,
		Forecast:    analysis.DefaultForecastOptions(),
		ClusterSeed: 42,
	}, discardLogger(), metrics)

	pages := dashboard.Pages()
	for _, p := range pages {
		_, err := dash.Render(ctx, p.Slug, url.Values{})
		require.NoError(t, err, "render %s", p.Slug)
	}
	require.NoError(t, writer.Close())

	consumer := newConsumer(t, broker)
	seen := map[string]int{}
	for range pages {
		got := readView(ctx, t, consumer)
		seen[got.View.Page]++
		assert.NotEmpty(t, got.View.ID)
	}
	for _, p := range pages {
		assert.Equal(t, 1, seen[p.Slug], "page %s", p.Slug)
	}
}
