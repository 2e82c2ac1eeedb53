package protocol

import (
	"encoding/binary"

	amqperrors "github.com/maxpert/amqp-client-go/errors"
)

// methodKey packs a class-id/method-id pair into one registry key
func methodKey(classID, methodID uint16) uint32 {
	return uint32(classID)<<16 | uint32(methodID)
}

// methodRegistry is the single source of truth mapping wire ids to method
// constructors. Both the serializer and the parser resolve methods through
// it.
var methodRegistry = map[uint32]func() Method{
	methodKey(ClassConnection, ConnectionStart):     func() Method { return &ConnectionStartMethod{} },
	methodKey(ClassConnection, ConnectionStartOK):   func() Method { return &ConnectionStartOKMethod{} },
	methodKey(ClassConnection, ConnectionSecure):    func() Method { return &ConnectionSecureMethod{} },
	methodKey(ClassConnection, ConnectionSecureOK):  func() Method { return &ConnectionSecureOKMethod{} },
	methodKey(ClassConnection, ConnectionTune):      func() Method { return &ConnectionTuneMethod{} },
	methodKey(ClassConnection, ConnectionTuneOK):    func() Method { return &ConnectionTuneOKMethod{} },
	methodKey(ClassConnection, ConnectionOpen):      func() Method { return &ConnectionOpenMethod{} },
	methodKey(ClassConnection, ConnectionOpenOK):    func() Method { return &ConnectionOpenOKMethod{} },
	methodKey(ClassConnection, ConnectionClose):     func() Method { return &ConnectionCloseMethod{} },
	methodKey(ClassConnection, ConnectionCloseOK):   func() Method { return &ConnectionCloseOKMethod{} },
	methodKey(ClassConnection, ConnectionBlocked):   func() Method { return &ConnectionBlockedMethod{} },
	methodKey(ClassConnection, ConnectionUnblocked): func() Method { return &ConnectionUnblockedMethod{} },

	methodKey(ClassChannel, ChannelOpen):    func() Method { return &ChannelOpenMethod{} },
	methodKey(ClassChannel, ChannelOpenOK):  func() Method { return &ChannelOpenOKMethod{} },
	methodKey(ClassChannel, ChannelFlow):    func() Method { return &ChannelFlowMethod{} },
	methodKey(ClassChannel, ChannelFlowOK):  func() Method { return &ChannelFlowOKMethod{} },
	methodKey(ClassChannel, ChannelClose):   func() Method { return &ChannelCloseMethod{} },
	methodKey(ClassChannel, ChannelCloseOK): func() Method { return &ChannelCloseOKMethod{} },

	methodKey(ClassExchange, ExchangeDeclare):   func() Method { return &ExchangeDeclareMethod{} },
	methodKey(ClassExchange, ExchangeDeclareOK): func() Method { return &ExchangeDeclareOKMethod{} },
	methodKey(ClassExchange, ExchangeDelete):    func() Method { return &ExchangeDeleteMethod{} },
	methodKey(ClassExchange, ExchangeDeleteOK):  func() Method { return &ExchangeDeleteOKMethod{} },
	methodKey(ClassExchange, ExchangeBind):      func() Method { return &ExchangeBindMethod{} },
	methodKey(ClassExchange, ExchangeBindOK):    func() Method { return &ExchangeBindOKMethod{} },
	methodKey(ClassExchange, ExchangeUnbind):    func() Method { return &ExchangeUnbindMethod{} },
	methodKey(ClassExchange, ExchangeUnbindOK):  func() Method { return &ExchangeUnbindOKMethod{} },

	methodKey(ClassQueue, QueueDeclare):   func() Method { return &QueueDeclareMethod{} },
	methodKey(ClassQueue, QueueDeclareOK): func() Method { return &QueueDeclareOKMethod{} },
	methodKey(ClassQueue, QueueBind):      func() Method { return &QueueBindMethod{} },
	methodKey(ClassQueue, QueueBindOK):    func() Method { return &QueueBindOKMethod{} },
	methodKey(ClassQueue, QueuePurge):     func() Method { return &QueuePurgeMethod{} },
	methodKey(ClassQueue, QueuePurgeOK):   func() Method { return &QueuePurgeOKMethod{} },
	methodKey(ClassQueue, QueueDelete):    func() Method { return &QueueDeleteMethod{} },
	methodKey(ClassQueue, QueueDeleteOK):  func() Method { return &QueueDeleteOKMethod{} },
	methodKey(ClassQueue, QueueUnbind):    func() Method { return &QueueUnbindMethod{} },
	methodKey(ClassQueue, QueueUnbindOK):  func() Method { return &QueueUnbindOKMethod{} },

	methodKey(ClassBasic, BasicQos):          func() Method { return &BasicQosMethod{} },
	methodKey(ClassBasic, BasicQosOK):        func() Method { return &BasicQosOKMethod{} },
	methodKey(ClassBasic, BasicConsume):      func() Method { return &BasicConsumeMethod{} },
	methodKey(ClassBasic, BasicConsumeOK):    func() Method { return &BasicConsumeOKMethod{} },
	methodKey(ClassBasic, BasicCancel):       func() Method { return &BasicCancelMethod{} },
	methodKey(ClassBasic, BasicCancelOK):     func() Method { return &BasicCancelOKMethod{} },
	methodKey(ClassBasic, BasicPublish):      func() Method { return &BasicPublishMethod{} },
	methodKey(ClassBasic, BasicReturn):       func() Method { return &BasicReturnMethod{} },
	methodKey(ClassBasic, BasicDeliver):      func() Method { return &BasicDeliverMethod{} },
	methodKey(ClassBasic, BasicGet):          func() Method { return &BasicGetMethod{} },
	methodKey(ClassBasic, BasicGetOK):        func() Method { return &BasicGetOKMethod{} },
	methodKey(ClassBasic, BasicGetEmpty):     func() Method { return &BasicGetEmptyMethod{} },
	methodKey(ClassBasic, BasicAck):          func() Method { return &BasicAckMethod{} },
	methodKey(ClassBasic, BasicReject):       func() Method { return &BasicRejectMethod{} },
	methodKey(ClassBasic, BasicRecoverAsync): func() Method { return &BasicRecoverAsyncMethod{} },
	methodKey(ClassBasic, BasicRecover):      func() Method { return &BasicRecoverMethod{} },
	methodKey(ClassBasic, BasicRecoverOK):    func() Method { return &BasicRecoverOKMethod{} },
	methodKey(ClassBasic, BasicNack):         func() Method { return &BasicNackMethod{} },

	methodKey(ClassConfirm, ConfirmSelect):   func() Method { return &ConfirmSelectMethod{} },
	methodKey(ClassConfirm, ConfirmSelectOK): func() Method { return &ConfirmSelectOKMethod{} },

	methodKey(ClassTx, TxSelect):     func() Method { return &TxSelectMethod{} },
	methodKey(ClassTx, TxSelectOK):   func() Method { return &TxSelectOKMethod{} },
	methodKey(ClassTx, TxCommit):     func() Method { return &TxCommitMethod{} },
	methodKey(ClassTx, TxCommitOK):   func() Method { return &TxCommitOKMethod{} },
	methodKey(ClassTx, TxRollback):   func() Method { return &TxRollbackMethod{} },
	methodKey(ClassTx, TxRollbackOK): func() Method { return &TxRollbackOKMethod{} },
}

// NewMethod returns a fresh instance of the method with the given wire ids,
// or an UnknownMethodError for an unrecognized pair.
func NewMethod(classID, methodID uint16) (Method, error) {
	ctor, ok := methodRegistry[methodKey(classID, methodID)]
	if !ok {
		return nil, amqperrors.NewUnknownMethod(classID, methodID)
	}
	return ctor(), nil
}

// DecodeMethod decodes a method frame payload (class-id, method-id,
// arguments) into a typed method.
func DecodeMethod(payload []byte) (Method, error) {
	if len(payload) < 4 {
		return nil, amqperrors.NewFrameError("method frame payload too short")
	}

	classID := binary.BigEndian.Uint16(payload[0:2])
	methodID := binary.BigEndian.Uint16(payload[2:4])

	method, err := NewMethod(classID, methodID)
	if err != nil {
		return nil, err
	}
	if err := method.Deserialize(payload[4:]); err != nil {
		return nil, amqperrors.NewFrameErrorf("decode %s: %v", method.Name(), err)
	}
	return method, nil
}

// EncodeMethodFrame serializes a method into a complete method frame for
// the given channel.
func EncodeMethodFrame(channel uint16, method Method) (*Frame, error) {
	args, err := method.Serialize()
	if err != nil {
		return nil, err
	}
	return NewMethodFrame(channel, method.ClassID(), method.MethodID(), args), nil
}
