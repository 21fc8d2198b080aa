package protocol

import (
	"simfuzz/entities"
	"simfuzz/infra/utils/msgpack"

	"github.com/pkg/errors"
)

// Сообщения кодируются как serde-enum: map с единственным ключом-именем
// варианта. Unit-варианты (Reset, Exit, Ready) несут nil полезную нагрузку.
// StopReason внутри Stopped вложен тем же способом.

func EncodeClientMessage(conv msgpack.Converter, msg Message) ([]byte, error) {
	if !IsClientKind(msg.Kind()) {
		return nil, errors.Errorf("%s is not a client message", msg.Kind())
	}
	return encodeMessage(conv, msg)
}

func EncodeModuleMessage(conv msgpack.Converter, msg Message) ([]byte, error) {
	if !IsModuleKind(msg.Kind()) {
		return nil, errors.Errorf("%s is not a module message", msg.Kind())
	}
	return encodeMessage(conv, msg)
}

func encodeMessage(conv msgpack.Converter, msg Message) ([]byte, error) {
	switch m := msg.(type) {
	case Initialize:
		return conv.MarshalVariant(m.Kind().String(), m.Config)
	case Run:
		return conv.MarshalVariant(m.Kind().String(), m.Input)
	case Reset, Exit, Ready:
		return conv.MarshalVariant(msg.Kind().String(), nil)
	case Initialized:
		return conv.MarshalVariant(m.Kind().String(), m.Config)
	case Stopped:
		reason, err := encodeStopReason(m.Reason)
		if err != nil {
			return nil, err
		}
		return conv.MarshalVariant(m.Kind().String(), reason)
	}
	return nil, errors.Errorf("unknown message %T", msg)
}

func DecodeClientMessage(data []byte) (Message, error) {
	name, payload, err := msgpack.UnmarshalVariant(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal client message")
	}
	switch name {
	case KindInitialize.String():
		config := entities.InputConfig{}
		if err := msgpack.Unmarshal(payload, &config); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal input config")
		}
		return Initialize{Config: config}, nil
	case KindRun.String():
		var input []byte
		if err := msgpack.Unmarshal(payload, &input); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal run input")
		}
		return Run{Input: input}, nil
	case KindReset.String():
		return Reset{}, nil
	case KindExit.String():
		return Exit{}, nil
	}
	return nil, errors.Errorf("unknown client message variant %q", name)
}

func DecodeModuleMessage(data []byte) (Message, error) {
	name, payload, err := msgpack.UnmarshalVariant(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal module message")
	}
	switch name {
	case KindInitialized.String():
		config := entities.OutputConfig{}
		if err := msgpack.Unmarshal(payload, &config); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal output config")
		}
		return Initialized{Config: config}, nil
	case KindReady.String():
		return Ready{}, nil
	case KindStopped.String():
		reason, err := decodeStopReason(payload)
		if err != nil {
			return nil, err
		}
		return Stopped{Reason: reason}, nil
	}
	return nil, errors.Errorf("unknown module message variant %q", name)
}

func encodeStopReason(reason entities.StopReason) (map[string]interface{}, error) {
	if reason == nil {
		return nil, errors.New("stopped message without a reason")
	}
	if reason.StopKind() == entities.StopTimeOut {
		return map[string]interface{}{reason.StopKind().String(): nil}, nil
	}
	return map[string]interface{}{reason.StopKind().String(): reason}, nil
}

func decodeStopReason(data msgpack.RawMessage) (entities.StopReason, error) {
	name, payload, err := msgpack.UnmarshalVariant(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal stop reason")
	}
	switch name {
	case entities.StopMagic.String():
		magic := entities.Magic{}
		if err := msgpack.Unmarshal(payload, &magic); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal magic stop reason")
		}
		return magic, nil
	case entities.StopSimulationExit.String():
		exit := entities.SimulationExit{}
		if err := msgpack.Unmarshal(payload, &exit); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal simulation exit stop reason")
		}
		return exit, nil
	case entities.StopCrash.String():
		crash := entities.Crash{}
		if err := msgpack.Unmarshal(payload, &crash); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal crash stop reason")
		}
		return crash, nil
	case entities.StopTimeOut.String():
		return entities.TimeOut{}, nil
	case entities.StopError.String():
		moduleErr := entities.Error{}
		if err := msgpack.Unmarshal(payload, &moduleErr); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal error stop reason")
		}
		return moduleErr, nil
	}
	return nil, errors.Errorf("unknown stop reason variant %q", name)
}
