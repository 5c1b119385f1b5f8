package worker

import (
	"context"
	"fmt"
	"github.com/ivanpodgorny/campusdelivery/internal/entity"
	"go.uber.org/zap"
	"strings"
	"sync"
)

// Notifier получает новые заказы из очереди и отправляет уведомления о них.
// Для отправки создается Notifier.workersCount воркеров. Ошибки отправки
// записываются в лог и не влияют на заказ.
type Notifier struct {
	sender       Sender
	queue        <-chan entity.Order
	wg           *sync.WaitGroup
	workersCount int
	logger       *zap.SugaredLogger
}

type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

func NewNotifier(s Sender, q <-chan entity.Order, wg *sync.WaitGroup, w int, l *zap.SugaredLogger) *Notifier {
	return &Notifier{
		sender:       s,
		queue:        q,
		wg:           wg,
		workersCount: w,
		logger:       l,
	}
}

func (n *Notifier) Do(ctx context.Context) {
	for i := 0; i < n.workersCount; i++ {
		n.wg.Add(1)

		go n.worker(ctx)
	}
}

func (n *Notifier) worker(ctx context.Context) {
	defer n.wg.Done()

	for {
		select {
		case o, ok := <-n.queue:
			if !ok {
				return
			}

			if err := n.sender.Send(ctx, Subject(o), Body(o)); err != nil {
				n.logger.Errorw("order notification failed", "order", o.ID, "error", err)

				continue
			}

			n.logger.Debugw("order notification sent", "order", o.ID)
		case <-ctx.Done():
			return
		}
	}
}

func Subject(o entity.Order) string {
	return fmt.Sprintf("New order from %s", o.Name)
}

// Body формирует текст уведомления: данные клиента, адрес доставки, суммы и описание заказа.
func Body(o entity.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order: %s\n", o.ID)
	fmt.Fprintf(&b, "Customer: %s\n", o.Name)
	fmt.Fprintf(&b, "Phone: %s\n", o.PhoneNumber)
	fmt.Fprintf(&b, "Delivery address: %s\n", o.Address())
	fmt.Fprintf(&b, "Order amount: GH₵%s\n", o.OrderAmount)
	fmt.Fprintf(&b, "Delivery fee: GH₵%s\n", o.DeliveryFee)
	fmt.Fprintf(&b, "Total: GH₵%s\n", o.TotalAmount)
	fmt.Fprintf(&b, "Placed at: %s\n\n", o.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString(o.OrderDescription)
	b.WriteString("\n")

	return b.String()
}
