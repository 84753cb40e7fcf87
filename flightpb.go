package router

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// FlightDataProto converts d to a protobuf value, for transports that carry
// flight data as google.protobuf.Value instead of JSON. Rendered output and
// head payloads must be JSON-like values.
func FlightDataProto(d FlightData) (*structpb.Value, error) {
	v, err := structpb.NewValue(EncodeFlightData(d))
	if err != nil {
		return nil, fmt.Errorf("flight data to protobuf: %w", err)
	}
	return v, nil
}

// DecodeFlightDataProto is the inverse of FlightDataProto.
func DecodeFlightDataProto(v *structpb.Value) (FlightData, error) {
	if v == nil {
		return FlightData{}, malformed("nil protobuf value")
	}
	return DecodeFlightData(v.AsInterface())
}

// MarshalFlightData encodes d as a serialized google.protobuf.Value.
func MarshalFlightData(d FlightData) ([]byte, error) {
	v, err := FlightDataProto(d)
	if err != nil {
		return nil, err
	}
	b, err := proto.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return b, nil
}

// UnmarshalFlightData decodes flight data serialized by MarshalFlightData.
func UnmarshalFlightData(b []byte) (FlightData, error) {
	var v structpb.Value
	if err := proto.Unmarshal(b, &v); err != nil {
		return FlightData{}, fmt.Errorf("%w: unmarshal: %v", ErrMalformedFlightData, err)
	}
	return DecodeFlightDataProto(&v)
}

// RouterStateProto encodes t for a protobuf request field.
func RouterStateProto(t *RouteTree) (*structpb.ListValue, error) {
	l, err := structpb.NewList(EncodeRouterState(t))
	if err != nil {
		return nil, fmt.Errorf("router state to protobuf: %w", err)
	}
	return l, nil
}

// DecodeRouterStateProto is the inverse of RouterStateProto.
func DecodeRouterStateProto(l *structpb.ListValue) (*RouteTree, error) {
	return DecodeRouterState(l.AsSlice())
}
