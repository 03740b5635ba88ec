//go:build !tinygo && cgo

package gshapeaux

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/gshape"
	"github.com/soypat/gshape/glshape"
	"github.com/soypat/gshape/glsl"
)

func ui(ctx context.Context, cfg Config, items []Item) error {
	window, term, err := startGLFW(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer term()
	gpu, err := glshape.NewGPU()
	if err != nil {
		return err
	}
	defer gpu.Delete()

	// One program per style since every mesh is compiled with exactly the
	// attributes of its style.
	programmer := glsl.NewDefaultProgrammer()
	programs := make(map[glsl.Style]*glshape.Program)
	defer func() {
		for _, p := range programs {
			p.Delete()
		}
	}()
	meshes := make([]*gshape.Mesh, len(items))
	defer func() {
		for _, m := range meshes {
			if m != nil {
				m.Release()
			}
		}
	}()
	for i := range items {
		item := &items[i]
		need := item.Style.Requires()
		prog := programs[item.Style]
		if prog == nil {
			prog, err = glshape.CompileProgram(programmer, item.Style, need)
			if err != nil {
				return fmt.Errorf("compiling %s program: %w", item.Style, err)
			}
			programs[item.Style] = prog
		}
		meshes[i], err = item.Shape.Compile(gpu, need)
		if err != nil {
			return fmt.Errorf("compiling %s: %w", item.Name, err)
		}
		prog.Attach(meshes[i])
		if unbound := meshes[i].Unbound(); unbound != 0 {
			return fmt.Errorf("%s: attributes %s not bound by %s program", item.Name, unbound, item.Style)
		}
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.PointSize(3)

	var (
		current          int
		cam              Camera
		lastMouseX       float64
		lastMouseY       float64
		firstMouseMove   = true
		isMousePressed   = false
		yawSensitivity   = float32(0.005)
		pitchSensitivity = float32(0.005)
		start            = glfw.GetTime()
	)
	selectItem := func(i int) {
		current = (i + len(items)) % len(items)
		diag := max(items[current].Diagonal(), 1e-3)
		cam = Camera{Yaw: cam.Yaw, Pitch: cam.Pitch, Distance: 1.5 * diag, FOV: cfg.FOV * math32.Pi / 180}
		window.SetTitle(fmt.Sprintf("%s [%d/%d] %s (%s)", cfg.Title, current+1, len(items), items[current].Name, items[current].Style))
	}
	selectItem(0)

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		switch {
		case key == glfw.KeyRight || key == glfw.KeySpace:
			selectItem(current + 1)
		case key == glfw.KeyLeft:
			selectItem(current - 1)
		case key >= glfw.Key1 && key <= glfw.Key9:
			if i := int(key - glfw.Key1); i < len(items) {
				selectItem(i)
			}
		case key == glfw.KeyEscape:
			w.SetShouldClose(true)
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		if !isMousePressed {
			return
		}
		if firstMouseMove {
			lastMouseX = xpos
			lastMouseY = ypos
			firstMouseMove = false
		}
		deltaX := float32(xpos - lastMouseX)
		deltaY := float32(ypos - lastMouseY)
		cam.Orbit(-deltaX*yawSensitivity, deltaY*pitchSensitivity)
		lastMouseX = xpos
		lastMouseY = ypos
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		diag := max(items[current].Diagonal(), 1e-3)
		cam.Zoom(1-0.1*float32(yoff), diag*0.1, diag*10)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		if action == glfw.Press {
			isMousePressed = true
			firstMouseMove = true
			window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else if action == glfw.Release {
			isMousePressed = false
			window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	})

	bg := cfg.Background
	var u glshape.Uniforms
	for !window.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(bg[0], bg[1], bg[2], 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		item := &items[current]
		t := float32(glfw.GetTime() - start)
		u.Model = item.Mover.Model(t)
		u.View = cam.View()
		u.Proj = cam.Proj(float32(width) / float32(max(height, 1)))
		u.Color = item.Color
		if isMousePressed {
			u.Color = Highlight(item.Color, 0.3)
		}
		u.VectorLength = cfg.VectorLength * max(item.Diagonal(), 1e-3)
		programs[item.Style].Use(&u)
		err = meshes[current].Draw()
		if err != nil {
			return err
		}
		window.SwapBuffers()
		glfw.PollEvents()
		time.Sleep(time.Second / 60)
	}
	return nil
}

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, errors.Join(errors.New("initializing OpenGL"), err)
	}
	return window, glfw.Terminate, nil
}
