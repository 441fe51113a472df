package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	t.Run("body argument", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.run("add", "Runbook", testBodyRunbook)
		env.contains(out, "Created ")

		id := env.add("Recipe", testBodyRecipe)
		env.equals(env.run("cat", id), testBodyRecipe)
	})

	t.Run("body from stdin", func(t *testing.T) {
		env := newTestEnv(t)
		var n noteJSON
		out := env.runStdin(testBodyRunbook, "add", "Runbook", "-o", "json")
		require.NoError(t, jsonDecode(out, &n))
		assert.Equal(t, testBodyRunbook, n.Body)
	})

	t.Run("tags and favourite", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.add("Runbook", testBodyRunbook, "--tag", "ops", "--tag", "deploy", "--favorite")

		var n noteJSON
		env.runJSON(&n, "cat", id)
		assert.ElementsMatch(t, []string{"ops", "deploy"}, n.Tags)
		assert.True(t, n.Favorite)
		assert.False(t, n.Archived)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.runErr("add", "", "body")
		assert.Error(t, err)
	})

	t.Run("unknown folder rejected", func(t *testing.T) {
		env := newTestEnv(t)
		out, err := env.runErr("add", "Runbook", "body", "--folder", "no-such-folder")
		assert.Error(t, err)
		env.contains(out, "not found")
	})
}

func TestCat(t *testing.T) {
	env := newTestEnv(t)
	id := env.add("Recipe", testBodyRecipe)

	t.Run("line numbers", func(t *testing.T) {
		out := env.run("cat", "-n", id)
		env.contains(out, "1\tPreheat the oven.")
		env.contains(out, "3\tBake for twenty minutes.")
	})

	t.Run("line range", func(t *testing.T) {
		out := env.run("cat", "-l", "2:2", id)
		env.equals(out, "Mix flour and butter.")
	})

	t.Run("heading", func(t *testing.T) {
		out := env.run("cat", "--heading", id)
		env.contains(out, "# Recipe")
	})

	t.Run("missing note", func(t *testing.T) {
		out, err := env.runErr("cat", "no-such-note")
		assert.Error(t, err)
		env.contains(out, "not found")
	})
}

func TestLs(t *testing.T) {
	env := newTestEnv(t)
	a := env.add("Alpha", "first", "--tag", "work")
	b := env.add("Bravo", "second", "--favorite")
	c := env.add("Charlie", "third")
	env.run("update", c, "--archived")

	t.Run("hides archived by default", func(t *testing.T) {
		out := env.run("ls")
		env.contains(out, a)
		env.contains(out, b)
		env.notContains(out, c)
	})

	t.Run("all and archived", func(t *testing.T) {
		env.contains(env.run("ls", "-A"), c)

		out := env.run("ls", "--archived")
		env.contains(out, c)
		env.notContains(out, a)
	})

	t.Run("json", func(t *testing.T) {
		var notes []noteJSON
		env.runJSON(&notes, "ls", "-A")
		require.Len(t, notes, 3)
		assert.ElementsMatch(t, []string{a, b, c}, ids(notes))
	})

	t.Run("title sort", func(t *testing.T) {
		var notes []noteJSON
		env.runJSON(&notes, "ls", "-s", "title")
		require.Len(t, notes, 2)
		assert.Equal(t, "Alpha", notes[0].Title)
		assert.Equal(t, "Bravo", notes[1].Title)

		env.runJSON(&notes, "ls", "-s", "title", "-r")
		assert.Equal(t, "Bravo", notes[0].Title)
	})

	t.Run("filters", func(t *testing.T) {
		out := env.run("ls", "-t", "work")
		env.contains(out, a)
		env.notContains(out, b)

		out = env.run("ls", "--favorite")
		env.contains(out, b)
		env.notContains(out, a)

		out = env.run("ls", "--favorite=false")
		env.contains(out, a)
		env.notContains(out, b)
	})

	t.Run("limit and offset", func(t *testing.T) {
		var notes []noteJSON
		env.runJSON(&notes, "ls", "-A", "-n", "1", "--offset", "1")
		require.Len(t, notes, 1)
		assert.Empty(t, notes[0].Body, "listings omit bodies")
	})

	t.Run("invalid sort", func(t *testing.T) {
		_, err := env.runErr("ls", "-s", "size")
		assert.Error(t, err)
	})
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	id := env.add("Draft", "old body", "--tag", "wip")

	t.Run("only changed fields", func(t *testing.T) {
		env.contains(env.run("update", id, "--title", "Final"), "Updated "+id)

		var n noteJSON
		env.runJSON(&n, "cat", id)
		assert.Equal(t, "Final", n.Title)
		assert.Equal(t, "old body", n.Body)
		assert.Equal(t, []string{"wip"}, n.Tags)
	})

	t.Run("body from stdin", func(t *testing.T) {
		env.runStdin("new body", "update", id, "--body", "-")
		env.equals(env.run("cat", id), "new body")
	})

	t.Run("replace tags", func(t *testing.T) {
		env.run("update", id, "--tag", "done", "--tag", "q3")
		var n noteJSON
		env.runJSON(&n, "cat", id)
		assert.ElementsMatch(t, []string{"done", "q3"}, n.Tags)
	})

	t.Run("folder move and clear", func(t *testing.T) {
		f := env.folder("Projects")
		env.run("update", id, "--folder", f)

		var n noteJSON
		env.runJSON(&n, "cat", id)
		require.NotNil(t, n.FolderID)
		assert.Equal(t, f, *n.FolderID)

		env.run("update", id, "--clear")
		env.runJSON(&n, "cat", id)
		assert.Nil(t, n.FolderID)
	})

	t.Run("nothing to change", func(t *testing.T) {
		_, err := env.runErr("update", id)
		assert.Error(t, err)
	})
}

func TestEdit(t *testing.T) {
	t.Run("search and replace", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.add("Recipe", testBodyRecipe)

		env.contains(env.run("edit", id, "twenty", "thirty"), "Edited "+id)
		env.contains(env.run("cat", id), "Bake for thirty minutes.")
	})

	t.Run("case insensitive with flags", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.add("Recipe", testBodyRecipe)

		env.run("edit", id, "-i", "--old", "PREHEAT", "--new", "Warm")
		env.contains(env.run("cat", id), "Warm the oven.")
	})

	t.Run("line range from stdin", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.add("Recipe", testBodyRecipe)

		env.runStdin("Whisk eggs.", "edit", id, "-l", "2:2")
		out := env.run("cat", id)
		env.contains(out, "Whisk eggs.")
		env.notContains(out, "Mix flour")
	})

	t.Run("diff", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.add("Recipe", testBodyRecipe)

		out := env.run("edit", id, "twenty", "thirty", "-d")
		env.contains(out, "thirty")
	})

	t.Run("missing text", func(t *testing.T) {
		env := newTestEnv(t)
		id := env.add("Recipe", testBodyRecipe)

		_, err := env.runErr("edit", id, "souffle", "cake")
		assert.Error(t, err)
	})
}

func TestRm(t *testing.T) {
	env := newTestEnv(t)
	a := env.add("Alpha", "first")
	b := env.add("Bravo", "second")

	out := env.run("rm", "--dry-run", a)
	env.contains(out, "Would delete "+a)
	env.contains(env.run("ls"), a)

	out = env.run("rm", a, b)
	env.contains(out, "Deleted "+a)
	env.contains(out, "Deleted "+b)
	env.equals(env.run("ls"), "")

	_, err := env.runErr("rm", a)
	assert.Error(t, err)
}

func TestUserIsolation(t *testing.T) {
	alice := newTestEnv(t)
	bob := alice.as("bob")

	id := alice.add("Alice's plan", "secret launch date", "--tag", "private")
	bobID := bob.add("Bob's list", "groceries")

	t.Run("listing", func(t *testing.T) {
		out := bob.run("ls")
		bob.contains(out, bobID)
		bob.notContains(out, id)
	})

	t.Run("read and write", func(t *testing.T) {
		_, err := bob.runErr("cat", id)
		assert.Error(t, err)
		_, err = bob.runErr("update", id, "--title", "Mine now")
		assert.Error(t, err)
		_, err = bob.runErr("rm", id)
		assert.Error(t, err)

		alice.contains(alice.run("cat", "--heading", id), "# Alice's plan")
	})

	t.Run("search and tags", func(t *testing.T) {
		var r struct {
			Total int `json:"total"`
		}
		bob.runJSON(&r, "find", "launch")
		assert.Zero(t, r.Total)

		bob.notContains(bob.run("tag", "ls"), "private")
	})

	t.Run("flag overrides environment", func(t *testing.T) {
		out := bob.run("ls", "--user", "alice")
		bob.contains(out, id)
	})
}

func TestNoUser(t *testing.T) {
	env := newTestEnv(t).as("")

	out, err := env.runErr("ls")
	assert.Error(t, err)
	env.contains(out, "no user configured")

	// Commands that never open the store work without a user.
	env.run("version")
}
