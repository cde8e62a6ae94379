// Пакет events предоставляет обёртку для публикации событий аудита в NATS
package events

// Conn определяет минимальный интерфейс NATS-подключения.
// Любая реализация (например *nats.Conn) должна предоставлять метод Publish:
// subject — тема, data — байтовый массив сообщения
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher хранит Conn и тему subject для публикации событий
type NATSPublisher struct {
	conn    Conn
	subject string
}

// NewPublisher создаёт новый NATSPublisher, связывая Conn и subject
func NewPublisher(conn Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// PublishEvent отправляет данные события в заданный subject
// Возвращает ошибку, если публикация не удалась
func (p *NATSPublisher) PublishEvent(data []byte) error {
	return p.conn.Publish(p.subject, data)
}
