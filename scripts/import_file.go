// 离线导入导出文件并重算学习计划进度
//
// 适用于服务未启动时批量恢复数据，流程与接口导入一致：先合并预览，再确认提交。
//
// 用法: go run scripts/import_file.go -file 行测记录_2024-01-01.json [-dry-run]

package main

import (
	"context"
	"exam_tracker_backend/internal/config"
	"exam_tracker_backend/internal/repository"
	"exam_tracker_backend/internal/service"
	"exam_tracker_backend/pkg/database"
	"exam_tracker_backend/pkg/logger"
	"flag"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	file := flag.String("file", "", "导出的 JSON 文件")
	dryRun := flag.Bool("dry-run", false, "只显示合并结果，不写入数据库")
	flag.Parse()
	if *file == "" {
		log.Fatal("缺少 -file 参数")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	payload, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("无法读取导入文件: %v", err)
	}

	normalizer := service.NewNormalizer(cfg.Tracker.Location())
	records := repository.NewRecordRepository(db)
	plans := repository.NewPlanRepository(db)
	knowledge := repository.NewKnowledgeRepository(db)
	settings := service.NewSettingsService(repository.NewSettingsRepository(db), cfg.SettingsDefaults)

	calc := service.NewProgressCalculator(normalizer)
	notifier := service.NewNotificationService(repository.NewMemoryNotificationFeed())
	planSvc := service.NewPlanService(plans, records, normalizer, service.NewProgressSynchronizer(calc, notifier))

	importer := service.NewImportService(
		normalizer,
		records,
		knowledge,
		plans,
		settings,
		repository.NewTrackerRepository(db),
		repository.NewMemoryPendingImportStore(),
		planSvc,
		cfg.Tracker.PendingImportTTL(),
	)

	ctx := context.Background()
	bundle, err := importer.Preview(ctx, payload)
	if err != nil {
		log.Fatalf("导入文件无效: %v", err)
	}
	stats := bundle.ImportStats
	log.Printf("共 %d 条记录，新增 %d 条，重复 %d 条；知识点 %d 条，计划 %d 个",
		stats.Total, stats.Added, stats.Repeated, len(bundle.Knowledge), len(bundle.Plans))

	if *dryRun {
		log.Println("dry-run 模式，未写入")
		return
	}

	result, err := importer.Confirm(ctx, bundle.ID)
	if err != nil {
		log.Fatalf("提交导入失败: %v", err)
	}
	log.Printf("导入完成，实际新增 %d 条记录，计划进度已更新: %t", result.ImportStats.Added, result.PlansUpdated)
}
