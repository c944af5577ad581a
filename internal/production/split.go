package production

import (
	"sort"

	"pedidos-backend/internal/models"
)

// ProducerGroup agrupa os itens de um pedido destinados ao mesmo produtor
// externo.
type ProducerGroup struct {
	ProducerID uint
	Items      []models.OrderItem
}

// SplitByProducer particiona os itens por produtor externo. Itens de setor
// interno e itens ainda sem produtor ficam de fora: não geram ordem de
// produção. Os grupos saem ordenados por produtor para a resposta ser
// determinística.
func SplitByProducer(items []models.OrderItem) []ProducerGroup {
	byProducer := make(map[uint][]models.OrderItem)
	for _, item := range items {
		if item.ProducerID == nil {
			continue
		}
		if item.Producer != nil && item.Producer.Internal {
			continue
		}
		byProducer[*item.ProducerID] = append(byProducer[*item.ProducerID], item)
	}

	groups := make([]ProducerGroup, 0, len(byProducer))
	for id, its := range byProducer {
		groups = append(groups, ProducerGroup{ProducerID: id, Items: its})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ProducerID < groups[j].ProducerID })
	return groups
}

// SentProducerIDs: produtores que já têm ordem de produção ativa no pedido.
// Ordem rejeitada não conta; o produtor pode receber um novo envio.
func SentProducerIDs(existing []models.ProductionOrder) map[uint]bool {
	sent := make(map[uint]bool, len(existing))
	for _, po := range existing {
		if po.Status == models.ProductionStatusRejected {
			continue
		}
		sent[po.ProducerID] = true
	}
	return sent
}

// PendingGroups filtra os grupos que ainda não foram enviados.
func PendingGroups(groups []ProducerGroup, existing []models.ProductionOrder) []ProducerGroup {
	sent := SentProducerIDs(existing)
	pending := make([]ProducerGroup, 0, len(groups))
	for _, g := range groups {
		if !sent[g.ProducerID] {
			pending = append(pending, g)
		}
	}
	return pending
}
