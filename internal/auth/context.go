package auth

import "context"

type contextKey struct{}

// DeviceContext identifies the authenticated device on a request, and
// the family member linked to it when the device is personal.
type DeviceContext struct {
	DeviceID int64
	MemberID int64 // 0 when the device is shared (kiosk, tablet)
}

func WithDevice(ctx context.Context, dc DeviceContext) context.Context {
	return context.WithValue(ctx, contextKey{}, dc)
}

func FromContext(ctx context.Context) (DeviceContext, bool) {
	dc, ok := ctx.Value(contextKey{}).(DeviceContext)
	return dc, ok
}

func DeviceID(ctx context.Context) int64 {
	dc, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return dc.DeviceID
}

func MemberID(ctx context.Context) int64 {
	dc, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return dc.MemberID
}
