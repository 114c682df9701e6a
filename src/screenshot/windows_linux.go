//go:build linux

package screenshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// x11Lister reads the EWMH client list of the root window.
type x11Lister struct{}

// NewWindowLister returns the X11 window lister.
func NewWindowLister() WindowLister { return x11Lister{} }

func (x11Lister) ListWindows(ctx context.Context) ([]WindowInfo, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	defer conn.Close()

	root := xproto.Setup(conn).DefaultScreen(conn).Root
	atoms, err := internAtoms(conn,
		"_NET_CLIENT_LIST", "_NET_WM_NAME", "UTF8_STRING", "_NET_WM_STATE", "_NET_WM_STATE_HIDDEN",
	)
	if err != nil {
		return nil, err
	}

	clients, err := getProperty(conn, root, atoms["_NET_CLIENT_LIST"])
	if err != nil {
		return nil, fmt.Errorf("read _NET_CLIENT_LIST: %w", err)
	}

	var windows []WindowInfo
	for i := 0; i+4 <= len(clients); i += 4 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w := xproto.Window(xgb.Get32(clients[i:]))
		info, err := describeWindow(conn, root, w, atoms)
		if err != nil {
			// Windows can disappear between listing and querying.
			logger.Debugf(ctx, "skipping window 0x%x: %v", uint32(w), err)
			continue
		}
		windows = append(windows, info)
	}
	logger.Debugf(ctx, "listed %d X11 windows", len(windows))
	return windows, nil
}

func describeWindow(conn *xgb.Conn, root, w xproto.Window, atoms map[string]xproto.Atom) (WindowInfo, error) {
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return WindowInfo{}, err
	}
	pos, err := xproto.TranslateCoordinates(conn, w, root, 0, 0).Reply()
	if err != nil {
		return WindowInfo{}, err
	}

	title, _ := getProperty(conn, w, atoms["_NET_WM_NAME"])
	if len(title) == 0 {
		title, _ = getProperty(conn, w, xproto.AtomWmName)
	}
	class, _ := getProperty(conn, w, xproto.AtomWmClass)

	hidden := false
	if state, err := getProperty(conn, w, atoms["_NET_WM_STATE"]); err == nil {
		for i := 0; i+4 <= len(state); i += 4 {
			if xproto.Atom(xgb.Get32(state[i:])) == atoms["_NET_WM_STATE_HIDDEN"] {
				hidden = true
				break
			}
		}
	}

	return WindowInfo{
		Name:      windowClass(class),
		Title:     string(title),
		Minimized: hidden,
		X:         int(pos.DstX),
		Y:         int(pos.DstY),
		Width:     int(geom.Width),
		Height:    int(geom.Height),
	}, nil
}

// windowClass picks the class part of WM_CLASS ("instance\x00class\x00").
func windowClass(raw []byte) string {
	parts := strings.Split(strings.TrimRight(string(raw), "\x00"), "\x00")
	return parts[len(parts)-1]
}

func internAtoms(conn *xgb.Conn, names ...string) (map[string]xproto.Atom, error) {
	atoms := make(map[string]xproto.Atom, len(names))
	for _, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return nil, fmt.Errorf("intern atom %s: %w", name, err)
		}
		atoms[name] = reply.Atom
	}
	return atoms, nil
}

func getProperty(conn *xgb.Conn, w xproto.Window, atom xproto.Atom) ([]byte, error) {
	reply, err := xproto.GetProperty(conn, false, w, atom, xproto.GetPropertyTypeAny, 0, 1<<16).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}
