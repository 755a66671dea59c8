package main

import (
	"sync"

	"barangay-request-wizard/models"
)

// wizardSession is the per-resident in-process state: the current step, the
// outcome of the restore-or-autofill machine, and the binary attachments.
// Attachments live here and nowhere else — they are never written to the
// durable draft slot, so a resumed draft always needs fresh uploads.
type wizardSession struct {
	Step        Step
	Autofill    AutofillState
	attachments AttachmentSet
}

type SessionStore struct {
	sessions map[string]*wizardSession
	mutex    sync.Mutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*wizardSession),
	}
}

// session returns the resident's session, creating a blank one on first use.
// Callers must hold the mutex.
func (s *SessionStore) session(residentID string) *wizardSession {
	sess, ok := s.sessions[residentID]
	if !ok {
		sess = &wizardSession{
			Step:        StepPersonal,
			Autofill:    AutofillUninitialized,
			attachments: AttachmentSet{},
		}
		s.sessions[residentID] = sess
	}
	return sess
}

func (s *SessionStore) Snapshot(residentID string) (Step, AutofillState) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess := s.session(residentID)
	return sess.Step, sess.Autofill
}

func (s *SessionStore) SetStep(residentID string, step Step) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.session(residentID).Step = step
}

func (s *SessionStore) SetAutofill(residentID string, state AutofillState) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.session(residentID).Autofill = state
}

func (s *SessionStore) StoreAttachment(residentID string, att *models.Attachment) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.session(residentID).attachments[att.Kind] = att
}

func (s *SessionStore) RemoveAttachment(residentID string, kind models.AttachmentKind) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess := s.session(residentID)
	if sess.attachments[kind] == nil {
		return false
	}
	delete(sess.attachments, kind)
	return true
}

// Attachments returns a shallow copy so callers never share the inner map.
func (s *SessionStore) Attachments(residentID string) AttachmentSet {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sess := s.session(residentID)
	out := AttachmentSet{}
	for kind, att := range sess.attachments {
		out[kind] = att
	}
	return out
}

// Reset drops the session entirely: next use starts a fresh wizard with
// auto-fill re-armed. Called after a confirmed submission or an abandon.
func (s *SessionStore) Reset(residentID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.sessions, residentID)
}
