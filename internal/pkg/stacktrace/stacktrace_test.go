package stacktrace

import (
	"reflect"
	"testing"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/medibook/internal/identity/usecase.(*Usecase).Login(...)
	/app/internal/identity/usecase/login.go:42 +0x1a
net/http.HandlerFunc.ServeHTTP(...)
	/usr/local/go/src/net/http/server.go:2294 +0x29
	/app/internal/pkg/router/router.go:120
`)

	got := InternalPaths(stack)
	want := []string{
		"internal/identity/usecase/login.go:42",
		"internal/pkg/router/router.go:120",
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InternalPaths() = %#v, want %#v", got, want)
	}
}
