package glhost

const litVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vNormal;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = transpose(inverse(mat3(uModel))) * aNormal;
    gl_Position = uProjection * uView * world;
}
`

const litFragmentShader = `#version 410 core
#define MAX_LIGHTS 8

in vec3 vWorldPos;
in vec3 vNormal;

uniform vec3 uColor;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform vec3 uAmbient;

uniform int uLightCount;
uniform vec3 uLightPos[MAX_LIGHTS];
uniform vec3 uLightColor[MAX_LIGHTS];
uniform float uLightRange[MAX_LIGHTS];
uniform float uLightIntensity[MAX_LIGHTS];

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    vec3 light = uAmbient + uSunColor * max(dot(n, normalize(uSunDir)), 0.0);

    for (int i = 0; i < MAX_LIGHTS; i++) {
        if (i >= uLightCount) break;
        vec3 toLight = uLightPos[i] - vWorldPos;
        float dist = length(toLight);
        float falloff = clamp(1.0 - dist / uLightRange[i], 0.0, 1.0);
        float diffuse = max(dot(n, toLight / max(dist, 0.0001)), 0.0);
        light += uLightColor[i] * uLightIntensity[i] * falloff * falloff * diffuse;
    }

    FragColor = vec4(uColor * light, 1.0);
}
`

// The reflection was rendered with the viewer's projection, so the mirror
// samples it at its own screen position.
const mirrorVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec4 vClip;

void main() {
    vClip = uProjection * uView * uModel * vec4(aPosition, 1.0);
    gl_Position = vClip;
}
`

const mirrorFragmentShader = `#version 410 core
in vec4 vClip;

uniform sampler2D uReflectionTex;
uniform int uHasReflection;
uniform vec3 uTint;
uniform float uStrength;

out vec4 FragColor;

void main() {
    vec3 color = uTint * 0.2;
    if (uHasReflection == 1) {
        vec2 uv = (vClip.xy / vClip.w) * 0.5 + 0.5;
        color = mix(color, texture(uReflectionTex, uv).rgb * uTint, uStrength);
    }
    FragColor = vec4(color, 1.0);
}
`
