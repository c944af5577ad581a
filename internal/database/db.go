package database

import (
	"log"

	"pedidos-backend/internal/config"
	"pedidos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// TranslateError deixa violação de índice único reconhecível como
	// gorm.ErrDuplicatedKey nos handlers
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco: %v", err)
	}

	// Migration manual: comissões antigas não tinham snapshot do valor base.
	// Preenche base_value a partir do total do pedido ANTES do AutoMigrate
	// aplicar o NOT NULL.
	if DB.Migrator().HasTable(&models.Commission{}) {
		if !DB.Migrator().HasColumn(&models.Commission{}, "base_value") {
			log.Println("Adicionando coluna commissions.base_value...")
			if err := DB.Exec("ALTER TABLE commissions ADD COLUMN base_value DOUBLE PRECISION").Error; err != nil {
				log.Printf("Erro ao adicionar base_value (pode já existir): %v", err)
			}
			DB.Exec(`UPDATE commissions SET base_value = orders.total_value
				FROM orders WHERE commissions.order_id = orders.id AND commissions.base_value IS NULL`)
			DB.Exec("UPDATE commissions SET base_value = 0 WHERE base_value IS NULL")
			log.Println("Migration de base_value concluída")
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Producer{},
		&models.Product{},
		&models.Budget{},
		&models.BudgetItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.ProductionOrder{},
		&models.Commission{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	// O índice único (order_id, producer_id) é a trava contra envio duplicado
	// para o mesmo produtor; garante que existe mesmo em bancos antigos.
	DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_production_order_producer
		ON production_orders(order_id, producer_id)`)

	log.Println("Conexão com o banco OK. Migration concluída.")
}
