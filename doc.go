/*
Copyright © 2013 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package oceaninterp interpolates scalar and vector fields defined on a
// staggered curvilinear ocean-model grid (C-grid family, with optional
// multi-face cubed-sphere topology) and advects Lagrangian particles
// through the resulting velocity field.
//
// The package does not load model output from disk or persist
// trajectories; callers supply an OceData implementation (Grid is one,
// and builds its own rtree index over cell centers in NewGrid) and drive
// interpolation and advection through Position and Particle.
package oceaninterp
