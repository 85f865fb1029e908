package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"go.eeprom/internal/eeprom"
)

func parseKey(s string) (uint8, error) {
	k, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, errors.Errorf("invalid key %q", s)
	}
	if k == uint64(eeprom.NoKey) {
		return 0, errors.Errorf("key %d is reserved", k)
	}
	return uint8(k), nil
}

func parseValue(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, errors.Errorf("invalid value %q", s)
	}
	return uint16(v), nil
}

func (s *Server) authCommand(sess *Session, parts []string) Response {
	if len(parts) != 3 {
		return Usage("AUTH <username> <password>")
	}

	u, err := s.auth.Authenticate(parts[1], parts[2])
	if err != nil {
		s.log.WithFields(logrus.Fields{"user": parts[1], "session": sess.ID}).Warn("authentication failed")
		return Err(Msg(err.Error()))
	}

	sess.user = u
	return Respond(OK)
}

func (s *Server) getCommand(sess *Session, parts []string) Response {
	if !sess.IsAuth() {
		return Err(NoAuth)
	}

	if len(parts) != 2 {
		return Usage("GET <key>")
	}

	key, err := parseKey(parts[1])
	if err != nil {
		return Err(Msg(err.Error()))
	}

	v, err := s.db.Get(key)
	switch {
	case errors.Is(err, eeprom.ErrNotFound):
		return Err("not found")
	case errors.Is(err, eeprom.ErrIntegrity):
		return Respond(Msg(fmt.Sprintf("WARN: %d (integrity check failed)", v)))
	case err != nil:
		return Err(Msg(err.Error()))
	}
	return Respond(Msg(strconv.Itoa(int(v))))
}

func (s *Server) putCommand(sess *Session, parts []string) Response {
	if !sess.IsAuth() {
		return Err(NoAuth)
	}

	if !sess.user.CanWrite() {
		return Err(NoPerm)
	}

	if len(parts) != 3 {
		return Usage("PUT <key> <value>")
	}

	key, err := parseKey(parts[1])
	if err != nil {
		return Err(Msg(err.Error()))
	}
	value, err := parseValue(parts[2])
	if err != nil {
		return Err(Msg(err.Error()))
	}

	if err := s.db.Put(key, value); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("put failed")
		return Err(Msg(err.Error()))
	}
	return Respond(OK)
}

func (s *Server) dumpCommand(sess *Session, parts []string) Response {
	if !sess.IsAuth() {
		return Err(NoAuth)
	}

	if len(parts) != 1 {
		return Usage("DUMP")
	}

	records, err := s.db.Dump()
	if err != nil {
		return Err(Msg(err.Error()))
	}

	lines := make([]string, 0, len(records)+1)
	for _, r := range records {
		name := ""
		if reg, ok := s.db.Register(uint8(r.Key)); ok {
			name = " " + reg.Name
		}
		lines = append(lines, fmt.Sprintf("%d=%d%s", r.Key, r.Value, name))
	}
	lines = append(lines, fmt.Sprintf("%d keys", len(records)))
	return Respond(Msg(strings.Join(lines, "\n")))
}

func (s *Server) statCommand(sess *Session, parts []string) Response {
	if !sess.IsAuth() {
		return Err(NoAuth)
	}

	if len(parts) != 1 {
		return Usage("STAT")
	}

	st, err := s.db.Stats()
	if err != nil {
		return Err(Msg(err.Error()))
	}
	return Respond(Msg(fmt.Sprintf("active=%d page0=%s page1=%s used=%d free=%d keys=%d",
		st.ActivePage, st.Status[0], st.Status[1], st.UsedSlots, st.FreeSlots, st.Keys)))
}

func (s *Server) resetCommand(sess *Session, parts []string) Response {
	if !sess.IsAuth() {
		return Err(NoAuth)
	}

	if !sess.user.CanReset() {
		return Err(NoPerm)
	}

	if len(parts) != 1 {
		return Usage("RESET")
	}

	n, err := s.db.Reset()
	if err != nil {
		return Err(Msg(err.Error()))
	}
	return Respond(Msg(fmt.Sprintf("OK %d registers reset", n)))
}
