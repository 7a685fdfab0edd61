package database

import (
	"fmt"
	"log"
	"quizdeck_backend/internal/config"
	"quizdeck_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.UserActivity{},
	)

	if err != nil {
		return nil, err
	}

	if err := createStoredProcedures(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedQuestions(db)

	return db, nil
}

// createStoredProcedures 数据库侧的聚合与短语搜索，
// 迁移时创建，查询时只通过 CALL 访问。
func createStoredProcedures(db *gorm.DB) error {
	stmts := []string{
		`DROP PROCEDURE IF EXISTS get_category_counts`,
		`CREATE PROCEDURE get_category_counts()
			SELECT category AS cat_name, COUNT(*) AS q_count
			FROM questions
			WHERE deleted_at IS NULL
			GROUP BY category`,
		`DROP PROCEDURE IF EXISTS search_questions_by_phrase`,
		`CREATE PROCEDURE search_questions_by_phrase(IN phrase VARCHAR(255))
			SELECT id
			FROM questions
			WHERE deleted_at IS NULL
			  AND (question_text LIKE CONCAT('%', phrase, '%')
			   OR explanation LIKE CONCAT('%', phrase, '%'))`,
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedQuestions 空库时插入几道示例题，方便本地联调
func seedQuestions(db *gorm.DB) {
	var count int64
	db.Model(&model.Question{}).Count(&count)
	if count > 0 {
		return
	}

	samples := []model.Question{
		{
			Category:       "Networking",
			QuestionText:   "以下哪些协议工作在传输层？",
			Options:        model.StringList{"TCP", "UDP", "IP", "HTTP"},
			CorrectAnswers: model.StringList{"TCP", "UDP"},
			Explanation:    "TCP 和 UDP 属于传输层，IP 在网络层，HTTP 在应用层。",
		},
		{
			Category:       "Networking",
			QuestionText:   "HTTP 默认端口是多少？",
			Options:        model.StringList{"21", "80", "443", "8080"},
			CorrectAnswers: model.StringList{"80"},
			Explanation:    "HTTP 默认使用 80 端口，HTTPS 使用 443。",
		},
		{
			Category:       "General",
			QuestionText:   "Which of the following are immutable in Go?",
			Options:        model.StringList{"string", "slice", "map", "array value copies"},
			CorrectAnswers: model.StringList{"string", "array value copies"},
			Explanation:    "Strings are immutable; arrays copy by value. Slices and maps share backing storage.",
		},
		{
			Category:       "Databases",
			QuestionText:   "事务的 ACID 中 I 指什么？",
			Options:        model.StringList{"Integrity", "Isolation", "Idempotency", "Indexing"},
			CorrectAnswers: model.StringList{"Isolation"},
			Explanation:    "I 表示隔离性（Isolation）。",
		},
	}
	for i := range samples {
		db.Create(&samples[i])
	}
}
