package testsupport

// harnessPrelude installs the browser and runtime shims generated documents
// expect. __pageURL, __queryJSON, __declJSON, __inputJSON, __throwJSON and
// atob are set from Go before it runs.
const harnessPrelude = `
var window = this;
var __log = {
  sets: {}, order: [], fires: [], inputs: {}, inputFires: [], calls: [],
  errors: [], fetches: [], blobs: [], listeners: {}, options: null, constructed: 0
};
var console = {
  log: function () {},
  warn: function () {},
  error: function () {
    var parts = [];
    for (var i = 0; i < arguments.length; i++) parts.push(String(arguments[i]));
    __log.errors.push(parts.join(" "));
  }
};

var __timers = [], __now = 0, __seq = 0;
function setTimeout(fn, ms) {
  var delay = Number(ms);
  __seq++;
  __timers.push({ at: __now + (delay > 0 ? delay : 0), seq: __seq, fn: fn });
  return __seq;
}
function clearTimeout(id) {
  __timers = __timers.filter(function (t) { return t.seq !== id; });
}
function __advance(ms) {
  var limit = __now + ms, guard = 0;
  while (__timers.length && guard++ < 100000) {
    __timers.sort(function (a, b) { return (a.at - b.at) || (a.seq - b.seq); });
    if (__timers[0].at > limit) break;
    var next = __timers.shift();
    __now = next.at;
    next.fn();
  }
  if (isFinite(limit) && limit > __now) __now = limit;
}

function addEventListener(type, fn) {
  (__log.listeners[type] = __log.listeners[type] || []).push(fn);
}
function __dispatch(type) {
  var list = __log.listeners[type] || [];
  for (var i = 0; i < list.length; i++) list[i]();
}
var document = {
  readyState: "complete",
  getElementById: function (id) { return { id: id }; },
  addEventListener: addEventListener
};
var location = { href: __pageURL };

var __queryPairs = JSON.parse(__queryJSON) || [];
function URLSearchParams(pairs) { this.__pairs = pairs || []; }
URLSearchParams.prototype.get = function (key) {
  for (var i = 0; i < this.__pairs.length; i++) {
    if (this.__pairs[i][0] === key) return this.__pairs[i][1];
  }
  return null;
};
URLSearchParams.prototype.forEach = function (fn) {
  for (var i = 0; i < this.__pairs.length; i++) fn(this.__pairs[i][1], this.__pairs[i][0], this);
};
function URL(href) {
  this.href = String(href);
  this.searchParams = new URLSearchParams(this.href === location.href ? __queryPairs : []);
}
URL.createObjectURL = function (blob) {
  __log.blobs.push(blob);
  return "blob:rivegen/" + __log.blobs.length;
};
function Blob(parts, opts) {
  this.parts = parts || [];
  this.type = opts && opts.type;
}

function XMLHttpRequest() {}
XMLHttpRequest.prototype.open = function (method, url) { this.url = url; };
XMLHttpRequest.prototype.send = function () {
  var xhr = this;
  __log.fetches.push(xhr.url);
  setTimeout(function () {
    xhr.status = 200;
    xhr.response = { byteLength: 16 };
    if (xhr.onload) xhr.onload();
  }, 0);
};

var __decl = JSON.parse(__declJSON) || {};
var __inputDecl = JSON.parse(__inputJSON) || [];
var __throws = JSON.parse(__throwJSON) || {};
function __accessor(kind) {
  return function (name) {
    if (__decl[name] !== kind) return null;
    var prop = { name: name };
    var key = kind + ":" + name;
    if (kind === "trigger") {
      prop.fire = function () {
        if (__throws[key]) throw new Error("runtime rejected " + key);
        __log.fires.push(name);
      };
      return prop;
    }
    Object.defineProperty(prop, "value", {
      get: function () { return __log.sets[key]; },
      set: function (v) {
        if (__throws[key]) throw new Error("runtime rejected " + key);
        __log.sets[key] = v; __log.order.push(key);
      }
    });
    return prop;
  };
}
function __stateMachineInputs() {
  return __inputDecl.map(function (d) {
    var input = { name: d.name, type: d.type };
    if (d.type === "trigger") {
      input.fire = function () { __log.inputFires.push(d.name); };
      return input;
    }
    Object.defineProperty(input, "value", {
      get: function () { return __log.inputs[d.name]; },
      set: function (v) { __log.inputs[d.name] = v; }
    });
    return input;
  });
}
var rive = {
  Rive: function (opts) {
    __log.constructed++;
    __log.options = opts;
    this.viewModelInstance = {
      string: __accessor("string"),
      number: __accessor("number"),
      boolean: __accessor("boolean"),
      color: __accessor("color"),
      trigger: __accessor("trigger")
    };
    this.play = function (sm) { __log.calls.push("play:" + (sm === undefined ? "" : sm)); };
    this.stop = function (sm) { __log.calls.push("stop:" + (sm === undefined ? "" : sm)); };
    this.cleanup = function () { __log.calls.push("cleanup"); };
    this.resizeDrawingSurfaceToCanvas = function () {};
    this.stateMachineInputs = function () { return __stateMachineInputs(); };
    setTimeout(function () {
      if (opts && typeof opts.onLoad === "function") opts.onLoad();
    }, 0);
  }
};
`
