package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	NoteCount  int    `json:"note_count"`
	Registered bool   `json:"registered"`
}

func tagsByName(views []tagView) map[string]tagView {
	m := make(map[string]tagView, len(views))
	for _, v := range views {
		m[v.Name] = v
	}
	return m
}

func TestTag_Ls(t *testing.T) {
	env := newTestEnv(t)
	a := env.add("Alpha", "a", "--tag", "work", "--tag", "work")
	env.add("Bravo", "b", "--tag", "work", "--tag", "home")
	env.run("tag", "create", "urgent", "-c", "#ef4444")
	env.run("tag", "attach", "urgent", a)

	var views []tagView
	env.runJSON(&views, "tag", "ls")
	require.Len(t, views, 3)

	// Registry tags first, then unregistered names in lexical order.
	assert.Equal(t, "urgent", views[0].Name)
	assert.Equal(t, "home", views[1].Name)
	assert.Equal(t, "work", views[2].Name)

	m := tagsByName(views)
	assert.True(t, m["urgent"].Registered)
	assert.Equal(t, "#ef4444", m["urgent"].Color)
	assert.Equal(t, 1, m["urgent"].NoteCount)
	assert.False(t, m["work"].Registered)
	assert.Equal(t, 2, m["work"].NoteCount, "a note counts once per name")
	assert.Equal(t, "#6366f1", m["home"].Color)

	t.Run("table", func(t *testing.T) {
		out := env.run("tag")
		env.contains(out, "NAME")
		env.contains(out, "urgent")
		env.contains(out, "no")
	})
}

func TestTag_Create(t *testing.T) {
	env := newTestEnv(t)

	env.contains(env.run("tag", "create", "ops"), "Created tag ops")

	out, err := env.runErr("tag", "create", "ops")
	assert.Error(t, err)
	env.contains(out, "already exists")

	_, err = env.runErr("tag", "create", "bad", "-c", "red")
	assert.Error(t, err)
}

func TestTag_AttachDetach(t *testing.T) {
	env := newTestEnv(t)
	a := env.add("Alpha", "a")
	b := env.add("Bravo", "b")

	out := env.run("tag", "attach", "review", a, b)
	env.contains(out, "Attached review "+a)
	env.contains(out, "Attached review "+b)

	var views []tagView
	env.runJSON(&views, "tag", "ls")
	m := tagsByName(views)
	assert.True(t, m["review"].Registered, "attach registers the name")
	assert.Equal(t, 2, m["review"].NoteCount)

	env.run("tag", "detach", "review", a)
	env.runJSON(&views, "tag", "ls")
	assert.Equal(t, 1, tagsByName(views)["review"].NoteCount)

	t.Run("foreign note", func(t *testing.T) {
		bob := env.as("bob")
		_, err := bob.runErr("tag", "attach", "review", b)
		assert.Error(t, err)
	})
}

func TestTag_Rm(t *testing.T) {
	env := newTestEnv(t)
	a := env.add("Alpha", "a", "--tag", "draft")
	env.run("tag", "attach", "draft", a)

	env.contains(env.run("tag", "rm", "draft"), "Removed tag draft")

	// The note still carries the name, so it comes back unregistered.
	var views []tagView
	env.runJSON(&views, "tag", "ls")
	require.Len(t, views, 1)
	assert.False(t, views[0].Registered)
	assert.Equal(t, 1, views[0].NoteCount)

	_, err := env.runErr("tag", "rm", "missing")
	assert.Error(t, err)
}

func TestTag_Formalise(t *testing.T) {
	env := newTestEnv(t)
	env.add("Alpha", "a", "--tag", "one", "--tag", "two")

	out := env.run("tag", "formalise")
	env.contains(out, "Registered one")
	env.contains(out, "Registered two")

	var views []tagView
	env.runJSON(&views, "tag", "ls")
	for _, v := range views {
		assert.True(t, v.Registered, v.Name)
	}

	env.contains(env.run("tag", "formalize"), "All tags are registered")
}

func TestTag_RegisterObserved(t *testing.T) {
	env := newTestEnv(t)
	env.run("config", "tags.register_observed", "true")

	env.add("Alpha", "a", "--tag", "seen")

	var views []tagView
	env.runJSON(&views, "tag", "ls")
	require.Len(t, views, 1)
	assert.True(t, views[0].Registered)
	assert.Equal(t, "#6366f1", views[0].Color)
}
