package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client embrulha o Redis para cache de leituras agregadas. O painel da
// logística tolera 30s de atraso (o sistema antigo fazia polling nesse
// intervalo), então as visões agregadas podem viver em cache pelo mesmo TTL.
type Client struct {
	rdb *redis.Client
}

// Initialize conecta no Redis. addr vazio desliga o cache sem erro: toda
// leitura vira miss e o chamador consulta o banco direto.
func Initialize(addr string) *Client {
	if addr == "" {
		log.Println("REDIS_ADDR vazio, cache desligado")
		return &Client{}
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis indisponível (%v), cache desligado", err)
		return &Client{}
	}

	log.Println("Cache Redis conectado:", addr)
	return &Client{rdb: rdb}
}

func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("não foi possível serializar para o cache: %w", err)
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// GetJSON devolve false quando a chave não existe ou o cache está desligado.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("não foi possível ler o cache: %w", err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("cache corrompido em %s: %w", key, err)
	}
	return true, nil
}
