package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/assohub/internal/config"
	"github.com/assohub/internal/db"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// 测试数据生成器：为统计面板填充可看的演示数据
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	// 创建测试管理员
	createTestAdmin()

	// 生成最近 30 天的埋点事件与会话
	createTestAnalytics(time.Now().UTC(), 30)

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
}

// 创建测试管理员
func createTestAdmin() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	user := db.User{
		Username: "admin",
		Password: string(hashedPassword),
		Role:     db.RoleAdmin,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		log.Fatal("创建用户失败:", err)
	}
}

// seedClient 描述一种模拟客户端环境
type seedClient struct {
	userAgent  string
	deviceType string
	browser    string
	os         string
}

var (
	seedPages = []string{"/", "/announcements", "/events", "/members", "/newsletter", "/apply"}

	seedReferrers = []string{"", "https://www.google.com/", "https://example.org/partners", ""}

	seedClients = []seedClient{
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/125.0", "desktop", "Chrome", "Windows"},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) Safari/605.1.15", "desktop", "Safari", "macOS"},
		{"Mozilla/5.0 (Linux; Android 14) Chrome/125.0 Mobile", "mobile", "Chrome", "Linux"},
		{"Mozilla/5.0 (Windows NT 10.0) Firefox/126.0", "tablet", "Firefox", "Windows"},
	}
)

// 生成指定天数内的埋点事件与会话，每天若干会话、每个会话若干事件
func createTestAnalytics(now time.Time, days int) {
	var count int64
	db.DB.Model(&db.AnalyticsEvent{}).Count(&count)
	if count > 0 {
		fmt.Println("埋点数据已存在，跳过生成")
		return
	}

	rng := rand.New(rand.NewSource(now.UnixNano()))

	for day := 0; day < days; day++ {
		dayStart := now.AddDate(0, 0, -day).Truncate(24 * time.Hour)
		sessionCount := 2 + rng.Intn(4)

		for s := 0; s < sessionCount; s++ {
			startedAt := dayStart.Add(time.Duration(rng.Intn(86400)) * time.Second)
			sessionID := fmt.Sprintf("%d-%s", startedAt.UnixNano(), uuid.NewString()[:8])
			client := seedClients[rng.Intn(len(seedClients))]
			duration := int64(rng.Intn(300))

			session := db.AnalyticsSession{
				SessionID: sessionID,
				StartedAt: startedAt,
				Duration:  duration,
			}
			if err := db.DB.Create(&session).Error; err != nil {
				log.Fatal("创建会话失败:", err)
			}

			pageCount := 1 + rng.Intn(3)
			for p := 0; p < pageCount; p++ {
				page := seedPages[rng.Intn(len(seedPages))]
				at := startedAt.Add(time.Duration(p*20) * time.Second)

				createSeedEvent(db.EventTypePageView, page, seedReferrers[rng.Intn(len(seedReferrers))], client, sessionID, nil, at)
				createSeedEvent(db.EventTypePageView, page, "", client, sessionID, map[string]any{"duration": duration}, at.Add(15*time.Second))

				if rng.Intn(2) == 0 {
					createSeedEvent(db.EventTypeClick, page, "", client, sessionID, map[string]any{
						"element": "a",
						"text":    "了解更多",
						"href":    "/announcements",
					}, at.Add(5*time.Second))
				}
				if page == "/apply" {
					createSeedEvent(db.EventTypeFormSubmit, page, "", client, sessionID, map[string]any{
						"formId":     "membership-form",
						"formAction": "/apply",
						"formMethod": "POST",
					}, at.Add(30*time.Second))
				}
			}
		}
	}
}

func createSeedEvent(eventType, page, referrer string, client seedClient, sessionID string, metadata map[string]any, at time.Time) {
	encoded := ""
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			encoded = string(raw)
		}
	}

	event := db.AnalyticsEvent{
		ID:         uuid.NewString(),
		EventType:  eventType,
		Page:       page,
		Referrer:   referrer,
		UserAgent:  client.userAgent,
		DeviceType: client.deviceType,
		Browser:    client.browser,
		OS:         client.os,
		SessionID:  sessionID,
		Metadata:   encoded,
		CreatedAt:  at,
	}
	if err := db.DB.Create(&event).Error; err != nil {
		log.Fatal("创建事件失败:", err)
	}
}
