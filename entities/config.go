package entities

import "time"

const (
	covSizePow2 = 16
	// CovSize - размер карты покрытия, которую модуль шарит с клиентом
	CovSize = 1 << covSizePow2
)

// InputConfig - настройки кампании на всю сессию, клиент отправляет их
// один раз внутри Initialize.
type InputConfig struct {
	// уровень логирования модуля (инициализируется один раз на процесс)
	LogLevel string `msgpack:"log_level" yaml:"log_level"`
	// исключения, срабатывание которых считается крашем
	Faults []Fault `msgpack:"faults" yaml:"faults"`
	// бюджет времени на одну итерацию в секундах (виртуальное время хоста)
	TimeoutSeconds float64 `msgpack:"timeout" yaml:"timeout"`
}

func (c InputConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// CoverageShmem - описание shared memory с картой покрытия
type CoverageShmem struct {
	ID   string `msgpack:"id"`
	Size uint32 `msgpack:"size"`
}

// OutputConfig - ответ модуля на Initialize: все что клиенту нужно знать
// о раскладке памяти и каналах
type OutputConfig struct {
	Coverage CoverageShmem `msgpack:"coverage"`
}
