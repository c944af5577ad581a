package production

import (
	"testing"

	"pedidos-backend/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func externalItem(id uint, producerID uint) models.OrderItem {
	return models.OrderItem{
		ID:         id,
		ProducerID: uintPtr(producerID),
		Producer:   &models.Producer{ID: producerID, Internal: false},
	}
}

func internalItem(id uint, producerID uint) models.OrderItem {
	return models.OrderItem{
		ID:         id,
		ProducerID: uintPtr(producerID),
		Producer:   &models.Producer{ID: producerID, Internal: true},
	}
}

func TestSplitByProducer(t *testing.T) {
	items := []models.OrderItem{
		externalItem(1, 10),
		externalItem(2, 20),
		externalItem(3, 10),
		internalItem(4, 30),
		{ID: 5}, // sem produtor
	}

	groups := SplitByProducer(items)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}

	if groups[0].ProducerID != 10 || groups[1].ProducerID != 20 {
		t.Errorf("grupos fora de ordem: %d, %d", groups[0].ProducerID, groups[1].ProducerID)
	}
	if len(groups[0].Items) != 2 {
		t.Errorf("produtor 10 deveria ter 2 itens, tem %d", len(groups[0].Items))
	}
	for _, item := range groups[0].Items {
		if *item.ProducerID != 10 {
			t.Errorf("item %d no grupo errado", item.ID)
		}
	}
	if len(groups[1].Items) != 1 {
		t.Errorf("produtor 20 deveria ter 1 item, tem %d", len(groups[1].Items))
	}
}

func TestSplitByProducerAllInternal(t *testing.T) {
	items := []models.OrderItem{
		internalItem(1, 30),
		{ID: 2},
	}
	if groups := SplitByProducer(items); len(groups) != 0 {
		t.Errorf("pedido sem produtor externo deveria gerar zero grupos, gerou %d", len(groups))
	}
}

// N produtores externos distintos → N grupos, um por produtor.
func TestSplitByProducerCountsDistinct(t *testing.T) {
	var items []models.OrderItem
	for i := uint(1); i <= 5; i++ {
		items = append(items, externalItem(i, i*100))
		items = append(items, externalItem(i+10, i*100))
	}
	groups := SplitByProducer(items)
	if len(groups) != 5 {
		t.Fatalf("len(groups) = %d, want 5", len(groups))
	}
	for _, g := range groups {
		if len(g.Items) != 2 {
			t.Errorf("produtor %d com %d itens, want 2", g.ProducerID, len(g.Items))
		}
	}
}

func TestPendingGroups(t *testing.T) {
	groups := []ProducerGroup{
		{ProducerID: 10},
		{ProducerID: 20},
		{ProducerID: 30},
	}
	existing := []models.ProductionOrder{
		{ProducerID: 10, Status: models.ProductionStatusAccepted},
		{ProducerID: 20, Status: models.ProductionStatusRejected},
	}

	pending := PendingGroups(groups, existing)
	if len(pending) != 2 {
		t.Fatalf("len(pending) = %d, want 2", len(pending))
	}
	// 10 já enviado; 20 foi rejeitado e pode ser reenviado; 30 nunca enviado
	if pending[0].ProducerID != 20 || pending[1].ProducerID != 30 {
		t.Errorf("pendentes errados: %d, %d", pending[0].ProducerID, pending[1].ProducerID)
	}
}

// Enviar só para A deixa os itens de B na fila.
func TestPendingGroupsAfterSingleSend(t *testing.T) {
	items := []models.OrderItem{
		externalItem(1, 1), // produtor A
		externalItem(2, 2), // produtor B
	}
	groups := SplitByProducer(items)

	afterSendA := []models.ProductionOrder{
		{ProducerID: 1, Status: models.ProductionStatusPending},
	}
	pending := PendingGroups(groups, afterSendA)
	if len(pending) != 1 || pending[0].ProducerID != 2 {
		t.Fatalf("após enviar para A, só B deveria estar pendente: %+v", pending)
	}
}

func TestSentProducerIDs(t *testing.T) {
	existing := []models.ProductionOrder{
		{ProducerID: 1, Status: models.ProductionStatusPending},
		{ProducerID: 2, Status: models.ProductionStatusCompleted},
		{ProducerID: 3, Status: models.ProductionStatusRejected},
	}
	sent := SentProducerIDs(existing)
	if !sent[1] || !sent[2] {
		t.Error("ordens pendentes e concluídas contam como enviadas")
	}
	if sent[3] {
		t.Error("ordem rejeitada não pode contar como enviada")
	}
}
