package tracker

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// 事件类型，与服务端采集接口约定一致。
const (
	EventPageView   = "PAGE_VIEW"
	EventClick      = "CLICK"
	EventFormSubmit = "FORM_SUBMIT"
)

const (
	defaultCheckpointInterval = 30 * time.Second
	defaultSendTimeout        = 5 * time.Second
)

// Payload 是发往采集接口的完整事件载荷。
type Payload struct {
	EventType  string         `json:"eventType"`
	Page       string         `json:"page"`
	Referrer   string         `json:"referrer,omitempty"`
	UserAgent  string         `json:"userAgent"`
	DeviceType string         `json:"deviceType"`
	Browser    string         `json:"browser"`
	OS         string         `json:"os"`
	SessionID  string         `json:"sessionId"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Page 描述一次捕获时的浏览上下文快照。
// ViewportWidth 只在捕获瞬间读取一次，窗口缩放不会回溯已发事件。
type Page struct {
	Path          string
	Referrer      string
	UserAgent     string
	ViewportWidth int
}

// Tracker 负责组装事件载荷并异步上报。
// 上报是即发即弃的：不重试、不排队，失败只记录日志，绝不影响宿主页面。
type Tracker struct {
	endpoint           string
	client             *http.Client
	storage            Storage
	log                logrus.FieldLogger
	now                func() time.Time
	checkpointInterval time.Duration
	wg                 sync.WaitGroup
}

// Option 用于在构造 Tracker 时调整默认行为。
type Option func(*Tracker)

// WithHTTPClient 替换默认的 HTTP 客户端。
func WithHTTPClient(c *http.Client) Option {
	return func(t *Tracker) {
		if c != nil {
			t.client = c
		}
	}
}

// WithStorage 替换会话标识使用的存储。
func WithStorage(s Storage) Option {
	return func(t *Tracker) {
		if s != nil {
			t.storage = s
		}
	}
}

// WithLogger 替换默认日志器。
func WithLogger(l logrus.FieldLogger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithCheckpointInterval 允许在测试或特定场景下调整 30 秒的兜底计时。
func WithCheckpointInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.checkpointInterval = d
		}
	}
}

// New 创建 Tracker，endpoint 为采集接口地址。
func New(endpoint string, opts ...Option) *Tracker {
	t := &Tracker{
		endpoint:           endpoint,
		client:             &http.Client{Timeout: defaultSendTimeout},
		storage:            NewMemoryStorage(),
		log:                logrus.StandardLogger(),
		now:                time.Now,
		checkpointInterval: defaultCheckpointInterval,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Track 组装载荷并异步上报。metadata 可为 nil。
func (t *Tracker) Track(page Page, eventType string, metadata map[string]any) {
	payload := Payload{
		EventType:  eventType,
		Page:       page.Path,
		Referrer:   page.Referrer,
		UserAgent:  page.UserAgent,
		DeviceType: classifyDevice(page.ViewportWidth),
		Browser:    detectBrowser(page.UserAgent),
		OS:         detectOS(page.UserAgent),
		SessionID:  t.sessionID(),
		Metadata:   metadata,
	}

	t.dispatch(payload)
}

// dispatch 异步发送载荷，失败即丢弃。
func (t *Tracker) dispatch(p Payload) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		body, err := json.Marshal(p)
		if err != nil {
			t.log.WithError(err).Warn("埋点载荷序列化失败")
			return
		}

		resp, err := t.client.Post(t.endpoint, "application/json", bytes.NewReader(body))
		if err != nil {
			t.log.WithError(err).Debug("埋点上报失败，事件已丢弃")
			return
		}
		resp.Body.Close()
	}()
}

// Flush 等待所有已发出的上报完成，供测试与进程退出前使用。
func (t *Tracker) Flush() {
	t.wg.Wait()
}
