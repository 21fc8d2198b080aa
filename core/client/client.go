// Package client - сторона драйвера фаззера. Тонкая обертка над каналом:
// валидирует порядок обменов своей машиной состояний и превращает пары
// запрос/ответ в синхронные вызовы.
package client

import (
	"simfuzz/core/protocol"
	"simfuzz/entities"
	"simfuzz/infra/utils/logger"

	"github.com/pkg/errors"
)

type Client struct {
	machine  *protocol.Machine
	endpoint *protocol.ClientEndpoint
}

func New(conn protocol.Conn) *Client {
	return &Client{
		machine:  protocol.NewMachine(),
		endpoint: protocol.NewClientEndpoint(conn),
	}
}

// Initialize - передает настройки кампании, возвращает раскладку, которую
// выделил модуль (карта покрытия и тд)
func (c *Client) Initialize(cfg entities.InputConfig) (entities.OutputConfig, error) {
	if err := c.send(protocol.Initialize{Config: cfg}); err != nil {
		return entities.OutputConfig{}, err
	}
	reply, err := c.recv()
	if err != nil {
		return entities.OutputConfig{}, err
	}
	initialized, ok := reply.(protocol.Initialized)
	if !ok {
		return entities.OutputConfig{}, errors.Wrapf(protocol.ErrUnexpectedReply,
			"got %s, expected Initialized", reply.Kind())
	}
	logger.Infof("session initialized: coverage shmem %s", initialized.Config.Coverage.ID)
	return initialized.Config, nil
}

// Reset - откатывает таргет к исходному снапшоту; возврат означает, что
// модуль подтвердил готовность
func (c *Client) Reset() error {
	if err := c.send(protocol.Reset{}); err != nil {
		return err
	}
	reply, err := c.recv()
	if err != nil {
		return err
	}
	if _, ok := reply.(protocol.Ready); !ok {
		return errors.Wrapf(protocol.ErrUnexpectedReply, "got %s, expected Ready", reply.Kind())
	}
	return nil
}

// Run - прогоняет один тест-кейс и блокируется до остановки таргета
func (c *Client) Run(input []byte) (entities.StopReason, error) {
	if err := c.send(protocol.Run{Input: input}); err != nil {
		return nil, err
	}
	runsTotal.Inc()

	reply, err := c.recv()
	if err != nil {
		return nil, err
	}
	stopped, ok := reply.(protocol.Stopped)
	if !ok {
		return nil, errors.Wrapf(protocol.ErrUnexpectedReply, "got %s, expected Stopped", reply.Kind())
	}
	stopReasonTotal.WithLabelValues(stopped.Reason.StopKind().String()).Inc()
	return stopped.Reason, nil
}

// Exit - завершает сессию. Ответа не будет: модуль сносит процесс
// симулятора сразу по приему.
func (c *Client) Exit() error {
	return c.send(protocol.Exit{})
}

// send - сперва машина состояний, затем транспорт: незаконный вызов
// падает локально, не портя канал
func (c *Client) send(msg protocol.Message) error {
	if err := c.machine.Consume(msg.Kind()); err != nil {
		return err
	}
	logger.Debugf("client sending %s", msg.Kind())
	return c.endpoint.Send(msg)
}

func (c *Client) recv() (protocol.Message, error) {
	msg, err := c.endpoint.Recv()
	if err != nil {
		return nil, err
	}
	logger.Debugf("client received %s", msg.Kind())
	if err := c.machine.Consume(msg.Kind()); err != nil {
		return nil, err
	}
	return msg, nil
}
