package launch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/godbus/dbus/v5"
)

const (
	fileManagerDest = "org.freedesktop.FileManager1"
	fileManagerPath = dbus.ObjectPath("/org/freedesktop/FileManager1")
	showItemsMethod = fileManagerDest + ".ShowItems"
)

// DBusRevealer asks the session's file manager to show an item through the
// org.freedesktop.FileManager1 interface.
type DBusRevealer struct {
	connect func(ctx context.Context) (*dbus.Conn, error)
}

func NewDBusRevealer() *DBusRevealer {
	return &DBusRevealer{
		connect: func(ctx context.Context) (*dbus.Conn, error) {
			return dbus.ConnectSessionBus(dbus.WithContext(ctx))
		},
	}
}

func (r *DBusRevealer) Reveal(ctx context.Context, path string) error {
	conn, err := r.connect(ctx)
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	obj := conn.Object(fileManagerDest, fileManagerPath)
	call := obj.CallWithContext(ctx, showItemsMethod, 0, []string{FileURI(path)}, "")
	if call.Err != nil {
		return fmt.Errorf("ShowItems: %w", call.Err)
	}
	return nil
}

// FileURI converts an absolute path into a file:// URI with percent-escaping.
func FileURI(path string) string {
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}
